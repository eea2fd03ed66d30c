package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talia/go-boutique-api/internal/model"
)

type mockFavoriteRepo struct {
	favorites  map[uuid.UUID]*model.Favorite
	categories *mockCategoryRepo
}

func newMockFavoriteRepo(categories *mockCategoryRepo) *mockFavoriteRepo {
	return &mockFavoriteRepo{favorites: make(map[uuid.UUID]*model.Favorite), categories: categories}
}

func (m *mockFavoriteRepo) Create(_ context.Context, fav *model.Favorite) error {
	fav.ID = uuid.New()
	fav.CreatedAt = time.Now()
	m.favorites[fav.ID] = fav
	return nil
}

func (m *mockFavoriteRepo) GetByUserAndCategory(_ context.Context, userID, categoryID uuid.UUID) (*model.Favorite, error) {
	for _, f := range m.favorites {
		if f.UserID == userID && f.CategoryID == categoryID {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFavoriteRepo) DeleteByUserAndCategory(_ context.Context, userID, categoryID uuid.UUID) (bool, error) {
	for id, f := range m.favorites {
		if f.UserID == userID && f.CategoryID == categoryID {
			delete(m.favorites, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFavoriteRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]model.FavoriteLine, error) {
	var lines []model.FavoriteLine
	for _, f := range m.favorites {
		if f.UserID != userID {
			continue
		}
		line := model.FavoriteLine{Favorite: *f}
		if c, ok := m.categories.categories[f.CategoryID]; ok {
			line.Category = *c
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func favoriteServiceForTest(t *testing.T) (*FavoriteService, *mockFavoriteRepo, uuid.UUID) {
	t.Helper()
	categoryRepo := newMockCategoryRepo()
	category := &model.Category{Name: "Linen Shirt"}
	require.NoError(t, categoryRepo.Create(context.Background(), category))
	favRepo := newMockFavoriteRepo(categoryRepo)
	return NewFavoriteService(favRepo, categoryRepo), favRepo, category.ID
}

func TestFavoriteService_Add(t *testing.T) {
	svc, favRepo, categoryID := favoriteServiceForTest(t)
	userID := uuid.New()

	fav, err := svc.Add(context.Background(), userID, categoryID)
	require.NoError(t, err)
	assert.Equal(t, categoryID, fav.CategoryID)
	assert.Len(t, favRepo.favorites, 1)
}

func TestFavoriteService_Add_Duplicate(t *testing.T) {
	svc, _, categoryID := favoriteServiceForTest(t)
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, categoryID)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, categoryID)
	assert.ErrorIs(t, err, ErrFavoriteExists)
}

func TestFavoriteService_Add_CategoryNotFound(t *testing.T) {
	svc, _, _ := favoriteServiceForTest(t)
	_, err := svc.Add(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestFavoriteService_Remove_NotFound(t *testing.T) {
	svc, _, categoryID := favoriteServiceForTest(t)
	err := svc.Remove(context.Background(), uuid.New(), categoryID)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)
}

func TestFavoriteService_Toggle_RoundTrip(t *testing.T) {
	svc, favRepo, categoryID := favoriteServiceForTest(t)
	userID := uuid.New()

	favorited, err := svc.Toggle(context.Background(), userID, categoryID)
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Len(t, favRepo.favorites, 1)

	favorited, err = svc.Toggle(context.Background(), userID, categoryID)
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Empty(t, favRepo.favorites)
}

func TestFavoriteService_IsFavorited(t *testing.T) {
	svc, _, categoryID := favoriteServiceForTest(t)
	userID := uuid.New()

	favorited, err := svc.IsFavorited(context.Background(), userID, categoryID)
	require.NoError(t, err)
	assert.False(t, favorited)

	_, err = svc.Add(context.Background(), userID, categoryID)
	require.NoError(t, err)

	favorited, err = svc.IsFavorited(context.Background(), userID, categoryID)
	require.NoError(t, err)
	assert.True(t, favorited)
}

func TestFavoriteService_List_JoinsCatalog(t *testing.T) {
	svc, _, categoryID := favoriteServiceForTest(t)
	userID := uuid.New()

	_, err := svc.Add(context.Background(), userID, categoryID)
	require.NoError(t, err)

	lines, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Linen Shirt", lines[0].Category.Name)
}
