package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talia/go-boutique-api/internal/model"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *model.Rating) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Rating, error)
	Update(ctx context.Context, id uuid.UUID, rating int, review string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]model.Rating, error)
	ListByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]model.Rating, error)
	StatsForCategory(ctx context.Context, categoryID uuid.UUID) (model.RatingStats, error)
}

type pgRatingRepo struct{ pool *pgxpool.Pool }

func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &pgRatingRepo{pool: pool}
}

func (r *pgRatingRepo) Create(ctx context.Context, rating *model.Rating) error {
	rating.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO ratings (id, user_id, category_id, rating, review, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING created_at`,
		rating.ID, rating.UserID, rating.CategoryID, rating.Rating, rating.Review,
	).Scan(&rating.CreatedAt)
	if err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

func (r *pgRatingRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Rating, error) {
	rating := &model.Rating{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, category_id, rating, review, created_at
		 FROM ratings WHERE id = $1`, id,
	).Scan(&rating.ID, &rating.UserID, &rating.CategoryID, &rating.Rating, &rating.Review, &rating.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return rating, nil
}

func (r *pgRatingRepo) Update(ctx context.Context, id uuid.UUID, rating int, review string) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE ratings SET rating = $2, review = $3 WHERE id = $1`,
		id, rating, review,
	)
	if err != nil {
		return false, fmt.Errorf("update rating: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgRatingRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete rating: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgRatingRepo) ListByCategoryID(ctx context.Context, categoryID uuid.UUID) ([]model.Rating, error) {
	return r.queryRatings(ctx,
		`SELECT r.id, r.user_id, u.name, r.category_id, r.rating, r.review, r.created_at
		 FROM ratings r JOIN users u ON r.user_id = u.id
		 WHERE r.category_id = $1 ORDER BY r.created_at DESC`, categoryID)
}

func (r *pgRatingRepo) ListByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) ([]model.Rating, error) {
	return r.queryRatings(ctx,
		`SELECT r.id, r.user_id, u.name, r.category_id, r.rating, r.review, r.created_at
		 FROM ratings r JOIN users u ON r.user_id = u.id
		 WHERE r.user_id = $1 AND r.category_id = $2 ORDER BY r.created_at DESC`,
		userID, categoryID)
}

func (r *pgRatingRepo) queryRatings(ctx context.Context, query string, args ...any) ([]model.Rating, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []model.Rating
	for rows.Next() {
		var rt model.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.UserName, &rt.CategoryID, &rt.Rating, &rt.Review, &rt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

func (r *pgRatingRepo) StatsForCategory(ctx context.Context, categoryID uuid.UUID) (model.RatingStats, error) {
	var stats model.RatingStats
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM ratings WHERE category_id = $1`,
		categoryID,
	).Scan(&stats.AverageRating, &stats.TotalRatings)
	if err != nil {
		return model.RatingStats{}, fmt.Errorf("rating stats: %w", err)
	}
	return stats, nil
}
