package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/talia/go-boutique-api/internal/dto"
	"github.com/talia/go-boutique-api/internal/model"
	"github.com/talia/go-boutique-api/internal/repository"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled at this stage")
)

type OrderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, cartRepo: cartRepo}
}

// Checkout converts the user's cart into one order. Current catalog prices
// are resolved per line and frozen into the order items; the order, its
// items, and the cart clear then commit in one transaction, so a failure
// leaves the cart exactly as it was.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*model.Order, error) {
	lines, err := s.cartRepo.ListLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Category.ID == uuid.Nil {
			return nil, fmt.Errorf("category %s: %w", line.CategoryID, ErrCategoryNotFound)
		}
		total = total.Add(line.Category.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, model.OrderItem{
			CategoryID: line.CategoryID,
			Quantity:   line.Quantity,
			Price:      line.Category.Price,
		})
	}

	order := &model.Order{
		UserID:        userID,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   total,
		ShippingAddress: model.Address{
			Street:  req.ShippingAddressStreet,
			City:    req.ShippingAddressCity,
			State:   req.ShippingAddressState,
			Zip:     req.ShippingAddressZip,
			Country: req.ShippingAddressCountry,
		},
		Items: items,
	}
	if err := s.orderRepo.PlaceOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return order, nil
}

// GetByID returns the order only to its owner; anything else reads as not
// found so order existence is never leaked.
func (s *OrderService) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.ListByUserID(ctx, userID)
}

// Cancel moves a pending order to cancelled. Confirmed and cancelled are
// terminal.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) error {
	order, err := s.GetByID(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusPending {
		return ErrOrderNotCancellable
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	return nil
}

func ToOrderResponse(order *model.Order) dto.OrderResponse {
	var items []dto.OrderItemResponse
	for _, item := range order.Items {
		var category *dto.CategoryResponse
		if item.Category != nil {
			c := ToCategoryResponse(item.Category)
			category = &c
		}
		items = append(items, dto.OrderItemResponse{
			ID:         item.ID,
			CategoryID: item.CategoryID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			Category:   category,
		})
	}
	return dto.OrderResponse{
		ID:                     order.ID,
		Status:                 order.Status,
		PaymentStatus:          order.PaymentStatus,
		PaymentMethod:          order.PaymentMethod,
		TotalAmount:            order.TotalAmount,
		ShippingAddressStreet:  order.ShippingAddress.Street,
		ShippingAddressCity:    order.ShippingAddress.City,
		ShippingAddressState:   order.ShippingAddress.State,
		ShippingAddressZip:     order.ShippingAddress.Zip,
		ShippingAddressCountry: order.ShippingAddress.Country,
		CreatedAt:              order.CreatedAt,
		Items:                  items,
	}
}
