package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Auth ---

type RegisterRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	AddressStreet  string `json:"addressStreet"`
	AddressCity    string `json:"addressCity"`
	AddressState   string `json:"addressState"`
	AddressZip     string `json:"addressZip"`
	AddressCountry string `json:"addressCountry"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	AddressStreet  string    `json:"addressStreet"`
	AddressCity    string    `json:"addressCity"`
	AddressState   string    `json:"addressState"`
	AddressZip     string    `json:"addressZip"`
	AddressCountry string    `json:"addressCountry"`
	CreatedAt      time.Time `json:"createdAt"`
}

type UpdateAddressRequest struct {
	AddressStreet  string `json:"addressStreet" binding:"required"`
	AddressCity    string `json:"addressCity" binding:"required"`
	AddressState   string `json:"addressState"`
	AddressZip     string `json:"addressZip" binding:"required"`
	AddressCountry string `json:"addressCountry" binding:"required"`
}

type ShippingAddressResponse struct {
	AddressStreet  string `json:"addressStreet"`
	AddressCity    string `json:"addressCity"`
	AddressState   string `json:"addressState"`
	AddressZip     string `json:"addressZip"`
	AddressCountry string `json:"addressCountry"`
}

// --- Catalog ---

// CreateCategoryInput is the normalized form of the multipart create/update
// payload: uploaded files and URL fields are resolved into Images before the
// service sees them.
type CreateCategoryInput struct {
	Name        string
	Price       decimal.Decimal
	Sizes       []string
	Material    string
	Color       string
	Description string
	Images      []string
}

type UpdateCategoryInput struct {
	Name        *string
	Price       *decimal.Decimal
	Size        *string
	Material    *string
	Color       *string
	Description *string
	// Images replaces the image list wholesale when non-nil.
	Images []string
}

type ListCategoriesRequest struct {
	Name     string `form:"name"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
	Size     string `form:"size"`
	Material string `form:"material"`
	Color    string `form:"color"`
	Limit    int    `form:"limit,default=10" binding:"min=1,max=100"`
	Offset   int    `form:"offset,default=0" binding:"min=0"`
}

type CategoryResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Size        string          `json:"size,omitempty"`
	Material    string          `json:"material,omitempty"`
	Color       string          `json:"color,omitempty"`
	Description string          `json:"description,omitempty"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Pagination Pagination         `json:"pagination"`
}

type CategoryNamesRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- Cart ---

type AddCartItemRequest struct {
	CategoryID uuid.UUID `json:"categoryId" binding:"required"`
	Quantity   int       `json:"quantity" binding:"omitempty,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

type CartLineResponse struct {
	ID         uuid.UUID        `json:"id"`
	CategoryID uuid.UUID        `json:"categoryId"`
	Quantity   int              `json:"quantity"`
	Category   CategoryResponse `json:"category"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
}

type CartResponse struct {
	Items      []CartLineResponse `json:"items"`
	Total      decimal.Decimal    `json:"total"`
	TotalItems int                `json:"totalItems"`
}

// --- Orders / payment ---

type CheckoutRequest struct {
	PaymentMethod          string `json:"paymentMethod" binding:"required"`
	ShippingAddressStreet  string `json:"shippingAddressStreet" binding:"required"`
	ShippingAddressCity    string `json:"shippingAddressCity" binding:"required"`
	ShippingAddressState   string `json:"shippingAddressState"`
	ShippingAddressZip     string `json:"shippingAddressZip" binding:"required"`
	ShippingAddressCountry string `json:"shippingAddressCountry" binding:"required"`
}

type CheckoutResponse struct {
	OrderID     uuid.UUID       `json:"orderId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaymentURL  string          `json:"paymentUrl"`
}

type OrderItemResponse struct {
	ID         uuid.UUID         `json:"id"`
	CategoryID uuid.UUID         `json:"categoryId"`
	Quantity   int               `json:"quantity"`
	Price      decimal.Decimal   `json:"price"`
	Category   *CategoryResponse `json:"category"`
}

type OrderResponse struct {
	ID                     uuid.UUID           `json:"id"`
	Status                 string              `json:"status"`
	PaymentStatus          string              `json:"paymentStatus"`
	PaymentMethod          string              `json:"paymentMethod"`
	TotalAmount            decimal.Decimal     `json:"totalAmount"`
	ShippingAddressStreet  string              `json:"shippingAddressStreet"`
	ShippingAddressCity    string              `json:"shippingAddressCity"`
	ShippingAddressState   string              `json:"shippingAddressState"`
	ShippingAddressZip     string              `json:"shippingAddressZip"`
	ShippingAddressCountry string              `json:"shippingAddressCountry"`
	CreatedAt              time.Time           `json:"createdAt"`
	Items                  []OrderItemResponse `json:"items,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type ProcessPaymentRequest struct {
	OrderID uuid.UUID `json:"orderId" binding:"required"`
}

type PaymentResultResponse struct {
	Message       string    `json:"message"`
	OrderID       uuid.UUID `json:"orderId"`
	PaymentStatus string    `json:"paymentStatus"`
	OrderStatus   string    `json:"orderStatus,omitempty"`
}

// --- Favorites ---

type FavoriteRequest struct {
	CategoryID uuid.UUID `json:"categoryId" binding:"required"`
}

type FavoriteLineResponse struct {
	ID         uuid.UUID        `json:"id"`
	CategoryID uuid.UUID        `json:"categoryId"`
	Category   CategoryResponse `json:"category"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type FavoriteListResponse struct {
	Favorites []FavoriteLineResponse `json:"favorites"`
	Total     int                    `json:"total"`
}

type FavoriteStatusResponse struct {
	CategoryID  uuid.UUID `json:"categoryId"`
	IsFavorited bool      `json:"isFavorited"`
}

type ToggleFavoriteResponse struct {
	Action      string    `json:"action"`
	CategoryID  uuid.UUID `json:"categoryId"`
	IsFavorited bool      `json:"isFavorited"`
}

// --- Ratings ---

type AddRatingRequest struct {
	CategoryID uuid.UUID `json:"categoryId" binding:"required"`
	Rating     int       `json:"rating" binding:"required,min=1,max=5"`
	Review     string    `json:"review"`
}

type UpdateRatingRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

type RatingResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	UserName   string    `json:"userName,omitempty"`
	CategoryID uuid.UUID `json:"categoryId"`
	Rating     int       `json:"rating"`
	Review     string    `json:"review,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RatingStatsResponse struct {
	AverageRating decimal.Decimal `json:"averageRating"`
	TotalRatings  int             `json:"totalRatings"`
}

type RatingListResponse struct {
	Ratings    []RatingResponse    `json:"ratings"`
	Statistics RatingStatsResponse `json:"statistics"`
}
