package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/talia/go-boutique-api/internal/model"
	"github.com/talia/go-boutique-api/internal/repository"
)

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrCartItemForbidden = errors.New("cart item belongs to another user")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

// Cart is the joined cart view: lines with catalog details, a per-line
// subtotal, the cart total, and the summed item count.
type Cart struct {
	Items      []model.CartLine
	Total      decimal.Decimal
	TotalItems int
}

type CartService struct {
	cartRepo     repository.CartRepository
	categoryRepo repository.CategoryRepository
}

func NewCartService(cartRepo repository.CartRepository, categoryRepo repository.CategoryRepository) *CartService {
	return &CartService{cartRepo: cartRepo, categoryRepo: categoryRepo}
}

// Add merges into an existing line for the same category or inserts a new
// one; the merge is a single atomic upsert in the store.
func (s *CartService) Add(ctx context.Context, userID, categoryID uuid.UUID, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	item := &model.CartItem{UserID: userID, CategoryID: categoryID, Quantity: quantity}
	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a line the user owns. Zero deletes the
// line; negative values are rejected before reaching the store. The removed
// result reports whether the line was deleted rather than updated.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (removed bool, err error) {
	if quantity < 0 {
		return false, ErrInvalidQuantity
	}

	item, err := s.cartRepo.GetByID(ctx, itemID)
	if err != nil {
		return false, fmt.Errorf("get cart item: %w", err)
	}
	if item == nil {
		return false, ErrCartItemNotFound
	}
	if item.UserID != userID {
		return false, ErrCartItemForbidden
	}

	if quantity == 0 {
		ok, err := s.cartRepo.Delete(ctx, itemID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, ErrCartItemNotFound
		}
		return true, nil
	}

	ok, err := s.cartRepo.SetQuantity(ctx, itemID, quantity)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrCartItemNotFound
	}
	return false, nil
}

func (s *CartService) UpdateQuantityByCategory(ctx context.Context, userID, categoryID uuid.UUID, quantity int) (removed bool, err error) {
	if quantity < 0 {
		return false, ErrInvalidQuantity
	}

	if quantity == 0 {
		ok, err := s.cartRepo.DeleteByCategory(ctx, userID, categoryID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, ErrCartItemNotFound
		}
		return true, nil
	}

	ok, err := s.cartRepo.SetQuantityByCategory(ctx, userID, categoryID, quantity)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrCartItemNotFound
	}
	return false, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.cartRepo.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get cart item: %w", err)
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	if item.UserID != userID {
		return ErrCartItemForbidden
	}

	ok, err := s.cartRepo.Delete(ctx, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartService) RemoveByCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	ok, err := s.cartRepo.DeleteByCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	lines, err := s.cartRepo.ListLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	cart := &Cart{Items: lines, Total: decimal.Zero}
	for _, line := range lines {
		cart.Total = cart.Total.Add(line.Subtotal)
		cart.TotalItems += line.Quantity
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.cartRepo.Clear(ctx, userID)
}

func (s *CartService) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.cartRepo.Count(ctx, userID)
}
