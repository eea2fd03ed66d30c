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

type FavoriteRepository interface {
	Create(ctx context.Context, fav *model.Favorite) error
	GetByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) (*model.Favorite, error)
	DeleteByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) (bool, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.FavoriteLine, error)
}

type pgFavoriteRepo struct{ pool *pgxpool.Pool }

func NewFavoriteRepository(pool *pgxpool.Pool) FavoriteRepository {
	return &pgFavoriteRepo{pool: pool}
}

func (r *pgFavoriteRepo) Create(ctx context.Context, fav *model.Favorite) error {
	fav.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO favorites (id, user_id, category_id, created_at)
		 VALUES ($1, $2, $3, NOW()) RETURNING created_at`,
		fav.ID, fav.UserID, fav.CategoryID,
	).Scan(&fav.CreatedAt)
	if err != nil {
		return fmt.Errorf("create favorite: %w", err)
	}
	return nil
}

func (r *pgFavoriteRepo) GetByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) (*model.Favorite, error) {
	fav := &model.Favorite{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, category_id, created_at
		 FROM favorites WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID,
	).Scan(&fav.ID, &fav.UserID, &fav.CategoryID, &fav.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get favorite: %w", err)
	}
	return fav, nil
}

func (r *pgFavoriteRepo) DeleteByUserAndCategory(ctx context.Context, userID, categoryID uuid.UUID) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID,
	)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgFavoriteRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.FavoriteLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT f.id, f.user_id, f.category_id, f.created_at,
				c.id, c.name, c.price, c.size, c.material, c.color
		 FROM favorites f
		 JOIN categories c ON f.category_id = c.id
		 WHERE f.user_id = $1
		 ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var lines []model.FavoriteLine
	var ids []uuid.UUID
	for rows.Next() {
		var line model.FavoriteLine
		err := rows.Scan(
			&line.ID, &line.UserID, &line.CategoryID, &line.CreatedAt,
			&line.Category.ID, &line.Category.Name, &line.Category.Price,
			&line.Category.Size, &line.Category.Material, &line.Category.Color,
		)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		lines = append(lines, line)
		ids = append(ids, line.CategoryID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("list favorites: %w", rows.Err())
	}

	if len(ids) > 0 {
		images, err := loadCategoryImages(ctx, r.pool, ids)
		if err != nil {
			return nil, err
		}
		for i := range lines {
			lines[i].Category.Images = images[lines[i].CategoryID]
		}
	}
	return lines, nil
}
