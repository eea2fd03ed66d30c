package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/talia/go-boutique-api/internal/model"
)

// CategoryFilter narrows the catalog listing. Zero values mean "no filter".
type CategoryFilter struct {
	Name     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Size     string
	Material string
	Color    string
	Limit    int
	Offset   int
}

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]model.Category, int, error)
	ListByName(ctx context.Context, name string) ([]model.Category, error)
	ListAll(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category, replaceImages bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgCategoryRepo struct{ pool *pgxpool.Pool }

func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &pgCategoryRepo{pool: pool}
}

func (r *pgCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	category.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO categories (id, name, price, size, material, color, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_at, updated_at`,
		category.ID, category.Name, category.Price, category.Size,
		category.Material, category.Color, category.Description,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	if err := insertImages(ctx, tx, category.ID, category.Images); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertImages(ctx context.Context, tx pgx.Tx, categoryID uuid.UUID, images []string) error {
	for i, url := range images {
		_, err := tx.Exec(ctx,
			`INSERT INTO category_images (id, category_id, image_url, position, created_at)
			 VALUES ($1, $2, $3, $4, NOW())`,
			uuid.New(), categoryID, url, i,
		)
		if err != nil {
			return fmt.Errorf("insert category image: %w", err)
		}
	}
	return nil
}

func (r *pgCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	c := &model.Category{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, price, size, material, color, description, created_at, updated_at
		 FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Price, &c.Size, &c.Material, &c.Color, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	images, err := loadCategoryImages(ctx, r.pool, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	c.Images = images[id]
	return c, nil
}

func (r *pgCategoryRepo) List(ctx context.Context, filter CategoryFilter) ([]model.Category, int, error) {
	where, args := buildCategoryWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM categories`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(
		`SELECT id, name, price, size, material, color, description, created_at, updated_at
		 FROM categories%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args),
	)
	categories, err := r.queryCategories(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func buildCategoryWhere(filter CategoryFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Name != "" {
		add("name ILIKE '%%' || $%d || '%%'", filter.Name)
	}
	if filter.MinPrice != nil {
		add("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("price <= $%d", *filter.MaxPrice)
	}
	if filter.Size != "" {
		add("size = $%d", filter.Size)
	}
	if filter.Material != "" {
		add("material = $%d", filter.Material)
	}
	if filter.Color != "" {
		add("color = $%d", filter.Color)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *pgCategoryRepo) ListByName(ctx context.Context, name string) ([]model.Category, error) {
	return r.queryCategories(ctx,
		`SELECT id, name, price, size, material, color, description, created_at, updated_at
		 FROM categories WHERE name = $1 ORDER BY created_at DESC`, name)
}

func (r *pgCategoryRepo) ListAll(ctx context.Context) ([]model.Category, error) {
	return r.queryCategories(ctx,
		`SELECT id, name, price, size, material, color, description, created_at, updated_at
		 FROM categories ORDER BY created_at DESC`)
}

func (r *pgCategoryRepo) queryCategories(ctx context.Context, query string, args ...any) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	var ids []uuid.UUID
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Price, &c.Size, &c.Material, &c.Color, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
		ids = append(ids, c.ID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("list categories: %w", rows.Err())
	}

	if len(ids) > 0 {
		images, err := loadCategoryImages(ctx, r.pool, ids)
		if err != nil {
			return nil, err
		}
		for i := range categories {
			categories[i].Images = images[categories[i].ID]
		}
	}
	return categories, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// loadCategoryImages returns the ordered image URL lists for a set of
// catalog rows. Shared by every repository that attaches category details.
func loadCategoryImages(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	rows, err := q.Query(ctx,
		`SELECT category_id, image_url FROM category_images
		 WHERE category_id = ANY($1) ORDER BY position, created_at`, ids)
	if err != nil {
		return nil, fmt.Errorf("get category images: %w", err)
	}
	defer rows.Close()

	images := make(map[uuid.UUID][]string, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var url string
		if err := rows.Scan(&id, &url); err != nil {
			return nil, fmt.Errorf("scan category image: %w", err)
		}
		images[id] = append(images[id], url)
	}
	return images, rows.Err()
}

// Update writes the full row; callers merge partial input beforehand. When
// replaceImages is set the image list is swapped wholesale in the same
// transaction.
func (r *pgCategoryRepo) Update(ctx context.Context, category *model.Category, replaceImages bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`UPDATE categories SET name=$2, price=$3, size=$4, material=$5, color=$6, description=$7, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		category.ID, category.Name, category.Price, category.Size,
		category.Material, category.Color, category.Description,
	).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update category: %w", err)
	}

	if replaceImages {
		if _, err := tx.Exec(ctx, `DELETE FROM category_images WHERE category_id = $1`, category.ID); err != nil {
			return fmt.Errorf("delete category images: %w", err)
		}
		if err := insertImages(ctx, tx, category.ID, category.Images); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *pgCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
