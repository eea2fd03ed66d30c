package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/talia/go-boutique-api/internal/model"
	"github.com/talia/go-boutique-api/internal/repository"
)

var (
	ErrFavoriteExists   = errors.New("category is already in favorites")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	categoryRepo repository.CategoryRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, categoryRepo repository.CategoryRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, categoryRepo: categoryRepo}
}

func (s *FavoriteService) Add(ctx context.Context, userID, categoryID uuid.UUID) (*model.Favorite, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	existing, err := s.favoriteRepo.GetByUserAndCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("check favorite: %w", err)
	}
	if existing != nil {
		return nil, ErrFavoriteExists
	}

	fav := &model.Favorite{UserID: userID, CategoryID: categoryID}
	if err := s.favoriteRepo.Create(ctx, fav); err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, categoryID uuid.UUID) error {
	ok, err := s.favoriteRepo.DeleteByUserAndCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFavoriteNotFound
	}
	return nil
}

func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]model.FavoriteLine, error) {
	return s.favoriteRepo.ListByUserID(ctx, userID)
}

func (s *FavoriteService) IsFavorited(ctx context.Context, userID, categoryID uuid.UUID) (bool, error) {
	fav, err := s.favoriteRepo.GetByUserAndCategory(ctx, userID, categoryID)
	if err != nil {
		return false, err
	}
	return fav != nil, nil
}

// Toggle flips the favorite state and reports whether the category is
// favorited afterwards. Check-then-act; a concurrent double toggle is an
// accepted benign race for this domain.
func (s *FavoriteService) Toggle(ctx context.Context, userID, categoryID uuid.UUID) (bool, error) {
	existing, err := s.favoriteRepo.GetByUserAndCategory(ctx, userID, categoryID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}

	if existing != nil {
		if _, err := s.favoriteRepo.DeleteByUserAndCategory(ctx, userID, categoryID); err != nil {
			return false, err
		}
		return false, nil
	}

	fav := &model.Favorite{UserID: userID, CategoryID: categoryID}
	if err := s.favoriteRepo.Create(ctx, fav); err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return true, nil
}
