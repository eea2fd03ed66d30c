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

type OrderRepository interface {
	// PlaceOrder writes the order, its items, and the cart clear for the
	// ordering user in one transaction. Either everything commits or the
	// cart is left untouched.
	PlaceOrder(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) PlaceOrder(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, status, payment_status, payment_method, total_amount,
			shipping_street, shipping_city, shipping_state, shipping_zip, shipping_country,
			created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.Status, order.PaymentStatus, order.PaymentMethod, order.TotalAmount,
		order.ShippingAddress.Street, order.ShippingAddress.City, order.ShippingAddress.State,
		order.ShippingAddress.Zip, order.ShippingAddress.Country,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, category_id, quantity, price, created_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())`,
			order.Items[i].ID, order.Items[i].OrderID, order.Items[i].CategoryID,
			order.Items[i].Quantity, order.Items[i].Price,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, order.UserID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return tx.Commit(ctx)
}

const orderColumns = `id, user_id, status, payment_status, payment_method, total_amount,
	shipping_street, shipping_city, shipping_state, shipping_zip, shipping_country,
	created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.TotalAmount,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.Zip, &o.ShippingAddress.Country,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *pgOrderRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []uuid.UUID
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("list orders: %w", rows.Err())
	}

	if len(ids) > 0 {
		items, err := r.itemsFor(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range orders {
			orders[i].Items = items[orders[i].ID]
		}
	}
	return orders, nil
}

// itemsFor loads order items for a set of orders, each with its catalog row
// attached when it still exists.
func (r *pgOrderRepo) itemsFor(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT oi.id, oi.order_id, oi.category_id, oi.quantity, oi.price,
				c.id, c.name, c.price, c.size, c.material, c.color, c.description
		 FROM order_items oi
		 LEFT JOIN categories c ON oi.category_id = c.id
		 WHERE oi.order_id = ANY($1)
		 ORDER BY oi.created_at`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]model.OrderItem, len(orderIDs))
	var catIDs []uuid.UUID
	for rows.Next() {
		var item model.OrderItem
		var catID *uuid.UUID
		var name, size, material, color, description *string
		var catPrice *decimal.Decimal
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.CategoryID, &item.Quantity, &item.Price,
			&catID, &name, &catPrice, &size, &material, &color, &description,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if catID != nil {
			item.Category = &model.Category{
				ID: *catID, Name: *name, Price: *catPrice,
				Size: *size, Material: *material, Color: *color, Description: *description,
			}
			catIDs = append(catIDs, *catID)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("get order items: %w", rows.Err())
	}

	if len(catIDs) > 0 {
		images, err := loadCategoryImages(ctx, r.pool, catIDs)
		if err != nil {
			return nil, err
		}
		for _, list := range items {
			for i := range list {
				if list[i].Category != nil {
					list[i].Category.Images = images[list[i].Category.ID]
				}
			}
		}
	}
	return items, nil
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

func (r *pgOrderRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = NOW() WHERE id = $1`, id, paymentStatus)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}
