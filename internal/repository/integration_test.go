package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talia/go-boutique-api/internal/model"
)

func createTestUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name: "Test User", Email: email, Password: "hashed", Role: model.RoleUser,
	}
	require.NoError(t, NewUserRepository(testPool).Create(context.Background(), user))
	return user
}

func createTestCategory(t *testing.T, price decimal.Decimal, images ...string) *model.Category {
	t.Helper()
	category := &model.Category{
		Name: "Linen Shirt", Price: price, Size: "M",
		Material: "linen", Color: "white", Images: images,
	}
	require.NoError(t, NewCategoryRepository(testPool).Create(context.Background(), category))
	return category
}

func TestUserRepo_CreateAndGetByEmail(t *testing.T) {
	cleanupAll(t)

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	user := createTestUser(t, "alice@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)

	found, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_UpdateAddress(t *testing.T) {
	cleanupAll(t)

	repo := NewUserRepository(testPool)
	ctx := context.Background()
	user := createTestUser(t, "addr@example.com")

	addr := model.Address{Street: "1 Main St", City: "Lyon", Zip: "69001", Country: "FR"}
	require.NoError(t, repo.UpdateAddress(ctx, user.ID, addr))

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, addr, found.Address)

	err = repo.UpdateAddress(ctx, uuid.New(), addr)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestCategoryRepo_CRUDWithImages(t *testing.T) {
	cleanupAll(t)

	repo := NewCategoryRepository(testPool)
	ctx := context.Background()

	category := createTestCategory(t, decimal.NewFromFloat(49.90), "/uploads/a.jpg", "/uploads/b.jpg")
	assert.NotEqual(t, uuid.Nil, category.ID)

	found, err := repo.GetByID(ctx, category.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Price.Equal(decimal.NewFromFloat(49.90)))
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, found.Images)

	found.Price = decimal.NewFromInt(45)
	found.Images = []string{"/uploads/c.jpg"}
	require.NoError(t, repo.Update(ctx, found, true))

	updated, err := repo.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(45)))
	assert.Equal(t, []string{"/uploads/c.jpg"}, updated.Images)

	require.NoError(t, repo.Delete(ctx, category.ID))
	gone, err := repo.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, repo.Delete(ctx, category.ID), pgx.ErrNoRows)
}

func TestCategoryRepo_ListFilters(t *testing.T) {
	cleanupAll(t)

	repo := NewCategoryRepository(testPool)
	ctx := context.Background()

	createTestCategory(t, decimal.NewFromInt(20))
	createTestCategory(t, decimal.NewFromInt(50))
	createTestCategory(t, decimal.NewFromInt(80))

	min := decimal.NewFromInt(30)
	max := decimal.NewFromInt(70)
	categories, total, err := repo.List(ctx, CategoryFilter{
		MinPrice: &min, MaxPrice: &max, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, categories, 1)
	assert.True(t, categories[0].Price.Equal(decimal.NewFromInt(50)))

	categories, total, err = repo.List(ctx, CategoryFilter{Name: "Linen Shirt", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, categories, 2)
}

func TestCartRepo_UpsertMergesLines(t *testing.T) {
	cleanupAll(t)

	repo := NewCartRepository(testPool)
	ctx := context.Background()
	user := createTestUser(t, "cart@example.com")
	category := createTestCategory(t, decimal.NewFromInt(20))

	first := &model.CartItem{UserID: user.ID, CategoryID: category.ID, Quantity: 2}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &model.CartItem{UserID: user.ID, CategoryID: category.ID, Quantity: 3}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	count, err := repo.Count(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCartRepo_ListLines_Subtotals(t *testing.T) {
	cleanupAll(t)

	repo := NewCartRepository(testPool)
	ctx := context.Background()
	user := createTestUser(t, "lines@example.com")
	category := createTestCategory(t, decimal.NewFromFloat(12.50), "/uploads/a.jpg")

	require.NoError(t, repo.Upsert(ctx, &model.CartItem{
		UserID: user.ID, CategoryID: category.ID, Quantity: 2,
	}))

	lines, err := repo.ListLines(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, category.ID, lines[0].Category.ID)
	assert.True(t, lines[0].Subtotal.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, []string{"/uploads/a.jpg"}, lines[0].Category.Images)
}

func TestOrderRepo_PlaceOrder_ClearsCart(t *testing.T) {
	cleanupAll(t)

	cartRepo := NewCartRepository(testPool)
	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()
	user := createTestUser(t, "order@example.com")
	category := createTestCategory(t, decimal.NewFromInt(20))

	require.NoError(t, cartRepo.Upsert(ctx, &model.CartItem{
		UserID: user.ID, CategoryID: category.ID, Quantity: 2,
	}))

	order := &model.Order{
		UserID:        user.ID,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: "card",
		TotalAmount:   decimal.NewFromInt(40),
		ShippingAddress: model.Address{
			Street: "1 Main St", City: "Lyon", Zip: "69001", Country: "FR",
		},
		Items: []model.OrderItem{
			{CategoryID: category.ID, Quantity: 2, Price: decimal.NewFromInt(20)},
		},
	}
	require.NoError(t, orderRepo.PlaceOrder(ctx, order))
	assert.NotEqual(t, uuid.Nil, order.ID)

	count, err := cartRepo.Count(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	found, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.TotalAmount.Equal(decimal.NewFromInt(40)))
	require.Len(t, found.Items, 1)
	assert.True(t, found.Items[0].Price.Equal(decimal.NewFromInt(20)))
	require.NotNil(t, found.Items[0].Category)
	assert.Equal(t, category.ID, found.Items[0].Category.ID)
}

func TestOrderRepo_StatusTransitions(t *testing.T) {
	cleanupAll(t)

	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()
	user := createTestUser(t, "status@example.com")

	order := &model.Order{
		UserID:        user.ID,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: "card",
		TotalAmount:   decimal.NewFromInt(10),
	}
	require.NoError(t, orderRepo.PlaceOrder(ctx, order))

	require.NoError(t, orderRepo.UpdatePaymentStatus(ctx, order.ID, model.PaymentStatusCompleted))
	require.NoError(t, orderRepo.UpdateStatus(ctx, order.ID, model.OrderStatusConfirmed))

	found, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, found.PaymentStatus)
	assert.Equal(t, model.OrderStatusConfirmed, found.Status)
}

func TestFavoriteRepo_UniquePerUserAndCategory(t *testing.T) {
	cleanupAll(t)

	repo := NewFavoriteRepository(testPool)
	ctx := context.Background()
	user := createTestUser(t, "fav@example.com")
	category := createTestCategory(t, decimal.NewFromInt(20), "/uploads/a.jpg")

	require.NoError(t, repo.Create(ctx, &model.Favorite{UserID: user.ID, CategoryID: category.ID}))

	found, err := repo.GetByUserAndCategory(ctx, user.ID, category.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	lines, err := repo.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Linen Shirt", lines[0].Category.Name)
	assert.Equal(t, []string{"/uploads/a.jpg"}, lines[0].Category.Images)

	ok, err := repo.DeleteByUserAndCategory(ctx, user.ID, category.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteByUserAndCategory(ctx, user.ID, category.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRatingRepo_Stats(t *testing.T) {
	cleanupAll(t)

	repo := NewRatingRepository(testPool)
	ctx := context.Background()
	alice := createTestUser(t, "alice@example.com")
	bob := createTestUser(t, "bob@example.com")
	category := createTestCategory(t, decimal.NewFromInt(20))

	require.NoError(t, repo.Create(ctx, &model.Rating{
		UserID: alice.ID, CategoryID: category.ID, Rating: 5, Review: "great",
	}))
	require.NoError(t, repo.Create(ctx, &model.Rating{
		UserID: bob.ID, CategoryID: category.ID, Rating: 3,
	}))

	stats, err := repo.StatsForCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRatings)
	assert.True(t, stats.AverageRating.Equal(decimal.NewFromInt(4)))

	ratings, err := repo.ListByCategoryID(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.NotEmpty(t, ratings[0].UserName)

	mine, err := repo.ListByUserAndCategory(ctx, alice.ID, category.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 5, mine[0].Rating)
}
