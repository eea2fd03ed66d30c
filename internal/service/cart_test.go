package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talia/go-boutique-api/internal/model"
)

// mockCartRepo joins lines against its own category map so tests can model
// lines whose catalog row has disappeared.
type mockCartRepo struct {
	items      map[uuid.UUID]*model.CartItem
	categories map[uuid.UUID]*model.Category
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{
		items:      make(map[uuid.UUID]*model.CartItem),
		categories: make(map[uuid.UUID]*model.Category),
	}
}

func (m *mockCartRepo) Upsert(_ context.Context, item *model.CartItem) error {
	for _, existing := range m.items {
		if existing.UserID == item.UserID && existing.CategoryID == item.CategoryID {
			existing.Quantity += item.Quantity
			*item = *existing
			return nil
		}
	}
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	m.items[item.ID] = item
	return nil
}

func (m *mockCartRepo) GetByID(_ context.Context, id uuid.UUID) (*model.CartItem, error) {
	return m.items[id], nil
}

func (m *mockCartRepo) SetQuantity(_ context.Context, id uuid.UUID, quantity int) (bool, error) {
	item, ok := m.items[id]
	if !ok {
		return false, nil
	}
	item.Quantity = quantity
	return true, nil
}

func (m *mockCartRepo) SetQuantityByCategory(_ context.Context, userID, categoryID uuid.UUID, quantity int) (bool, error) {
	for _, item := range m.items {
		if item.UserID == userID && item.CategoryID == categoryID {
			item.Quantity = quantity
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCartRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *mockCartRepo) DeleteByCategory(_ context.Context, userID, categoryID uuid.UUID) (bool, error) {
	for id, item := range m.items {
		if item.UserID == userID && item.CategoryID == categoryID {
			delete(m.items, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCartRepo) ListLines(_ context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	var lines []model.CartLine
	for _, item := range m.items {
		if item.UserID != userID {
			continue
		}
		line := model.CartLine{CartItem: *item}
		if c, ok := m.categories[item.CategoryID]; ok {
			line.Category = *c
			line.Subtotal = c.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (m *mockCartRepo) Clear(_ context.Context, userID uuid.UUID) (int, error) {
	removed := 0
	for id, item := range m.items {
		if item.UserID == userID {
			delete(m.items, id)
			removed++
		}
	}
	return removed, nil
}

func (m *mockCartRepo) Count(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, item := range m.items {
		if item.UserID == userID {
			count += item.Quantity
		}
	}
	return count, nil
}

func (m *mockCartRepo) addCategory(price decimal.Decimal) uuid.UUID {
	id := uuid.New()
	m.categories[id] = &model.Category{ID: id, Name: "Linen Shirt", Price: price}
	return id
}

func cartServiceForTest(cartRepo *mockCartRepo) *CartService {
	categoryRepo := newMockCategoryRepo()
	for id, c := range cartRepo.categories {
		categoryRepo.categories[id] = c
		categoryRepo.order = append(categoryRepo.order, id)
	}
	return NewCartService(cartRepo, categoryRepo)
}

func TestCartService_Add_MergesSameCategory(t *testing.T) {
	cartRepo := newMockCartRepo()
	categoryID := cartRepo.addCategory(decimal.NewFromInt(20))
	svc := cartServiceForTest(cartRepo)
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, categoryID, 2)
	require.NoError(t, err)
	item, err := svc.Add(context.Background(), userID, categoryID, 3)
	require.NoError(t, err)

	assert.Len(t, cartRepo.items, 1)
	assert.Equal(t, 5, item.Quantity)
}

func TestCartService_Add_CategoryNotFound(t *testing.T) {
	svc := cartServiceForTest(newMockCartRepo())
	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCartService_Add_InvalidQuantity(t *testing.T) {
	cartRepo := newMockCartRepo()
	categoryID := cartRepo.addCategory(decimal.NewFromInt(20))
	svc := cartServiceForTest(cartRepo)

	_, err := svc.Add(context.Background(), uuid.New(), categoryID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = svc.Add(context.Background(), uuid.New(), categoryID, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_UpdateQuantity_ZeroRemoves(t *testing.T) {
	cartRepo := newMockCartRepo()
	categoryID := cartRepo.addCategory(decimal.NewFromInt(20))
	svc := cartServiceForTest(cartRepo)
	userID := uuid.New()

	item, err := svc.Add(context.Background(), userID, categoryID, 2)
	require.NoError(t, err)

	removed, err := svc.UpdateQuantity(context.Background(), userID, item.ID, 0)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, cartRepo.items)
}

func TestCartService_UpdateQuantity_Negative(t *testing.T) {
	svc := cartServiceForTest(newMockCartRepo())
	_, err := svc.UpdateQuantity(context.Background(), uuid.New(), uuid.New(), -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_UpdateQuantity_OtherUsersItem(t *testing.T) {
	cartRepo := newMockCartRepo()
	categoryID := cartRepo.addCategory(decimal.NewFromInt(20))
	svc := cartServiceForTest(cartRepo)

	item, err := svc.Add(context.Background(), uuid.New(), categoryID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(context.Background(), uuid.New(), item.ID, 5)
	assert.ErrorIs(t, err, ErrCartItemForbidden)
}

func TestCartService_GetCart_Totals(t *testing.T) {
	cartRepo := newMockCartRepo()
	shirt := cartRepo.addCategory(decimal.NewFromInt(20))
	scarf := cartRepo.addCategory(decimal.NewFromFloat(12.50))
	svc := cartServiceForTest(cartRepo)
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, shirt, 2)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, scarf, 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.TotalItems)
	assert.True(t, cart.Total.Equal(decimal.NewFromFloat(52.50)))
}

func TestCartService_Clear(t *testing.T) {
	cartRepo := newMockCartRepo()
	categoryID := cartRepo.addCategory(decimal.NewFromInt(20))
	svc := cartServiceForTest(cartRepo)
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, categoryID, 2)
	require.NoError(t, err)

	removed, err := svc.Clear(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Empty(t, cartRepo.items)
}

func TestCartService_RemoveByCategory_NotFound(t *testing.T) {
	svc := cartServiceForTest(newMockCartRepo())
	err := svc.RemoveByCategory(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}
