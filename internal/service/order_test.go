package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talia/go-boutique-api/internal/dto"
	"github.com/talia/go-boutique-api/internal/model"
)

// mockOrderRepo mirrors the transactional contract of PlaceOrder: on success
// the order is stored and the user's cart is cleared together; on failure
// neither happens.
type mockOrderRepo struct {
	orders    map[uuid.UUID]*model.Order
	cart      *mockCartRepo
	failPlace bool
}

func newMockOrderRepo(cart *mockCartRepo) *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order), cart: cart}
}

func (m *mockOrderRepo) PlaceOrder(ctx context.Context, order *model.Order) error {
	if m.failPlace {
		return errors.New("store unavailable")
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	m.orders[order.ID] = order
	if m.cart != nil {
		_, _ = m.cart.Clear(ctx, order.UserID)
	}
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return m.orders[id], nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if o, ok := m.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (m *mockOrderRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, paymentStatus string) error {
	if o, ok := m.orders[id]; ok {
		o.PaymentStatus = paymentStatus
	}
	return nil
}

func checkoutRequest() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		PaymentMethod:          "card",
		ShippingAddressStreet:  "1 Main St",
		ShippingAddressCity:    "Lyon",
		ShippingAddressZip:     "69001",
		ShippingAddressCountry: "FR",
	}
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	cartRepo := newMockCartRepo()
	svc := NewOrderService(newMockOrderRepo(cartRepo), cartRepo)
	_, err := svc.Checkout(context.Background(), uuid.New(), checkoutRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_Checkout_FreezesPricesAndClearsCart(t *testing.T) {
	cartRepo := newMockCartRepo()
	categoryID := cartRepo.addCategory(decimal.NewFromFloat(20.00))
	orderRepo := newMockOrderRepo(cartRepo)
	svc := NewOrderService(orderRepo, cartRepo)
	userID := uuid.New()

	_, err := cartServiceForTest(cartRepo).Add(context.Background(), userID, categoryID, 2)
	require.NoError(t, err)

	order, err := svc.Checkout(context.Background(), userID, checkoutRequest())
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(40.00)))
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Price.Equal(decimal.NewFromFloat(20.00)))
	assert.Empty(t, cartRepo.items)

	// A later catalog price change never touches the placed order.
	cartRepo.categories[categoryID].Price = decimal.NewFromInt(99)
	stored, err := svc.GetByID(context.Background(), order.ID, userID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromFloat(40.00)))
}

func TestOrderService_Checkout_FailureLeavesCart(t *testing.T) {
	cartRepo := newMockCartRepo()
	categoryID := cartRepo.addCategory(decimal.NewFromInt(20))
	orderRepo := newMockOrderRepo(cartRepo)
	orderRepo.failPlace = true
	svc := NewOrderService(orderRepo, cartRepo)
	userID := uuid.New()

	_, err := cartServiceForTest(cartRepo).Add(context.Background(), userID, categoryID, 2)
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), userID, checkoutRequest())
	require.Error(t, err)
	assert.Len(t, cartRepo.items, 1)
	assert.Empty(t, orderRepo.orders)
}

func TestOrderService_Checkout_MissingCategory(t *testing.T) {
	cartRepo := newMockCartRepo()
	svc := NewOrderService(newMockOrderRepo(cartRepo), cartRepo)
	userID := uuid.New()

	// A line whose catalog row no longer exists.
	itemID := uuid.New()
	cartRepo.items[itemID] = &model.CartItem{
		ID: itemID, UserID: userID, CategoryID: uuid.New(), Quantity: 1,
	}

	_, err := svc.Checkout(context.Background(), userID, checkoutRequest())
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestOrderService_GetByID_ForeignOrder(t *testing.T) {
	cartRepo := newMockCartRepo()
	orderRepo := newMockOrderRepo(cartRepo)
	svc := NewOrderService(orderRepo, cartRepo)

	orderID := uuid.New()
	orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: uuid.New()}

	_, err := svc.GetByID(context.Background(), orderID, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_Cancel(t *testing.T) {
	cartRepo := newMockCartRepo()
	orderRepo := newMockOrderRepo(cartRepo)
	svc := NewOrderService(orderRepo, cartRepo)
	userID := uuid.New()

	orderID := uuid.New()
	orderRepo.orders[orderID] = &model.Order{
		ID: orderID, UserID: userID, Status: model.OrderStatusPending,
	}

	require.NoError(t, svc.Cancel(context.Background(), orderID, userID))
	assert.Equal(t, model.OrderStatusCancelled, orderRepo.orders[orderID].Status)
}

func TestOrderService_Cancel_TerminalStates(t *testing.T) {
	cartRepo := newMockCartRepo()
	orderRepo := newMockOrderRepo(cartRepo)
	svc := NewOrderService(orderRepo, cartRepo)
	userID := uuid.New()

	for _, status := range []string{model.OrderStatusConfirmed, model.OrderStatusCancelled} {
		orderID := uuid.New()
		orderRepo.orders[orderID] = &model.Order{ID: orderID, UserID: userID, Status: status}

		err := svc.Cancel(context.Background(), orderID, userID)
		assert.ErrorIs(t, err, ErrOrderNotCancellable)
		assert.Equal(t, status, orderRepo.orders[orderID].Status)
	}
}
