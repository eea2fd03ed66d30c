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
	ErrRatingNotFound  = errors.New("rating not found")
	ErrRatingForbidden = errors.New("rating belongs to another user")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

type RatingService struct {
	ratingRepo   repository.RatingRepository
	categoryRepo repository.CategoryRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, categoryRepo repository.CategoryRepository) *RatingService {
	return &RatingService{ratingRepo: ratingRepo, categoryRepo: categoryRepo}
}

// Add records a rating. Multiple ratings by the same user for the same
// category are allowed.
func (s *RatingService) Add(ctx context.Context, userID, categoryID uuid.UUID, rating int, review string) (*model.Rating, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	r := &model.Rating{UserID: userID, CategoryID: categoryID, Rating: rating, Review: review}
	if err := s.ratingRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("add rating: %w", err)
	}
	return r, nil
}

func (s *RatingService) Update(ctx context.Context, userID, ratingID uuid.UUID, rating int, review string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	existing, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return fmt.Errorf("get rating: %w", err)
	}
	if existing == nil {
		return ErrRatingNotFound
	}
	if existing.UserID != userID {
		return ErrRatingForbidden
	}

	ok, err := s.ratingRepo.Update(ctx, ratingID, rating, review)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRatingNotFound
	}
	return nil
}

func (s *RatingService) Delete(ctx context.Context, userID, ratingID uuid.UUID) error {
	existing, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return fmt.Errorf("get rating: %w", err)
	}
	if existing == nil {
		return ErrRatingNotFound
	}
	if existing.UserID != userID {
		return ErrRatingForbidden
	}

	ok, err := s.ratingRepo.Delete(ctx, ratingID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRatingNotFound
	}
	return nil
}

func (s *RatingService) ForCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Rating, model.RatingStats, error) {
	ratings, err := s.ratingRepo.ListByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, model.RatingStats{}, err
	}
	stats, err := s.ratingRepo.StatsForCategory(ctx, categoryID)
	if err != nil {
		return nil, model.RatingStats{}, err
	}
	return ratings, stats, nil
}

func (s *RatingService) ForUser(ctx context.Context, userID, categoryID uuid.UUID) ([]model.Rating, model.RatingStats, error) {
	ratings, err := s.ratingRepo.ListByUserAndCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, model.RatingStats{}, err
	}
	stats, err := s.ratingRepo.StatsForCategory(ctx, categoryID)
	if err != nil {
		return nil, model.RatingStats{}, err
	}
	return ratings, stats, nil
}
