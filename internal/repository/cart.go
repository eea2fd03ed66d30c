package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/talia/go-boutique-api/internal/model"
)

type CartRepository interface {
	// Upsert inserts the line or, if the user already has one for the same
	// category, adds to its quantity in a single atomic statement.
	Upsert(ctx context.Context, item *model.CartItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CartItem, error)
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	SetQuantityByCategory(ctx context.Context, userID, categoryID uuid.UUID, quantity int) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteByCategory(ctx context.Context, userID, categoryID uuid.UUID) (bool, error)
	ListLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)
	Clear(ctx context.Context, userID uuid.UUID) (int, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

func (r *pgCartRepo) Upsert(ctx context.Context, item *model.CartItem) error {
	item.ID = uuid.New()
	query := `INSERT INTO cart_items (id, user_id, category_id, quantity, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  ON CONFLICT (user_id, category_id)
			  DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
			  RETURNING id, quantity, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, item.ID, item.UserID, item.CategoryID, item.Quantity).
		Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *pgCartRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.CartItem, error) {
	item := &model.CartItem{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, category_id, quantity, created_at, updated_at
		 FROM cart_items WHERE id = $1`, id,
	).Scan(&item.ID, &item.UserID, &item.CategoryID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return item, nil
}

func (r *pgCartRepo) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = NOW() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return false, fmt.Errorf("update cart item quantity: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgCartRepo) SetQuantityByCategory(ctx context.Context, userID, categoryID uuid.UUID, quantity int) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3, updated_at = NOW()
		 WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID, quantity,
	)
	if err != nil {
		return false, fmt.Errorf("update cart item quantity by category: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgCartRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgCartRepo) DeleteByCategory(ctx context.Context, userID, categoryID uuid.UUID) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID,
	)
	if err != nil {
		return false, fmt.Errorf("delete cart item by category: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// ListLines returns the user's cart joined with catalog details. The join is
// LEFT so a line whose catalog row vanished still surfaces (with a zero
// Category ID) and the caller can report the broken reference.
func (r *pgCartRepo) ListLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ci.id, ci.user_id, ci.category_id, ci.quantity, ci.created_at, ci.updated_at,
				c.id, c.name, c.price, c.size, c.material, c.color
		 FROM cart_items ci
		 LEFT JOIN categories c ON ci.category_id = c.id
		 WHERE ci.user_id = $1
		 ORDER BY ci.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	var ids []uuid.UUID
	for rows.Next() {
		var line model.CartLine
		var catID *uuid.UUID
		var name, size, material, color *string
		var price *decimal.Decimal
		err := rows.Scan(
			&line.ID, &line.UserID, &line.CategoryID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt,
			&catID, &name, &price, &size, &material, &color,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		if catID != nil {
			line.Category = model.Category{
				ID: *catID, Name: *name, Price: *price,
				Size: *size, Material: *material, Color: *color,
			}
			line.Subtotal = price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			ids = append(ids, *catID)
		}
		lines = append(lines, line)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("list cart lines: %w", rows.Err())
	}

	if len(ids) > 0 {
		images, err := loadCategoryImages(ctx, r.pool, ids)
		if err != nil {
			return nil, err
		}
		for i := range lines {
			lines[i].Category.Images = images[lines[i].Category.ID]
		}
	}
	return lines, nil
}

func (r *pgCartRepo) Clear(ctx context.Context, userID uuid.UUID) (int, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

func (r *pgCartRepo) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return count, nil
}
