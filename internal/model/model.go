package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle. Confirmed and cancelled are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Address struct {
	Street  string
	City    string
	State   string
	Zip     string
	Country string
}

type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Password  string
	Role      string
	Address   Address
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category is one purchasable catalog variant (name+size+material+color),
// not a taxonomy node.
type Category struct {
	ID          uuid.UUID
	Name        string
	Price       decimal.Decimal
	Size        string
	Material    string
	Color       string
	Description string
	Images      []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CartItem struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Quantity   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CartLine is a cart item joined with its catalog row for display.
type CartLine struct {
	CartItem
	Category Category
	Subtotal decimal.Decimal
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          string
	PaymentStatus   string
	PaymentMethod   string
	TotalAmount     decimal.Decimal
	ShippingAddress Address
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem carries the unit price frozen at checkout time; later catalog
// price changes never touch it.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	CategoryID uuid.UUID
	Quantity   int
	Price      decimal.Decimal
	Category   *Category
}

type Favorite struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID uuid.UUID
	CreatedAt  time.Time
}

// FavoriteLine is a favorite joined with its catalog row.
type FavoriteLine struct {
	Favorite
	Category Category
}

type Rating struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	UserName   string
	CategoryID uuid.UUID
	Rating     int
	Review     string
	CreatedAt  time.Time
}

type RatingStats struct {
	AverageRating decimal.Decimal
	TotalRatings  int
}

// OrderConfirmedMessage is published after a successful payment and consumed
// by the notification worker.
type OrderConfirmedMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}
