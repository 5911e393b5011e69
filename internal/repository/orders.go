package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type OrderListFilter struct {
	CustomerID *int64
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type OrderPatchInput struct {
	OrderDate     *time.Time
	PaymentMethod *string
	Notes         *string
}

const orderColumns = `
	id,
	customer_id,
	user_id,
	order_date,
	total_amount::double precision,
	payment_method,
	notes
`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.UserID,
		&o.OrderDate,
		&o.TotalAmount,
		&o.PaymentMethod,
		&o.Notes,
	)
	return o, err
}

// CreateOrder persists an order and its line items in one transaction.
// Line amounts and the order total must already be computed by the caller.
func (r *Repository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if len(order.Items) == 0 {
		return domain.Order{}, fmt.Errorf("%w: order has no items", ErrInvalid)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, user_id, order_date, total_amount, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+orderColumns,
		order.CustomerID, order.UserID, order.OrderDate, order.TotalAmount, order.PaymentMethod, order.Notes,
	)
	created, err := scanOrder(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", mapPgError(err))
	}

	created.Items = make([]domain.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		var lineID int64
		if err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, item_amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, created.ID, item.ProductID, item.Quantity, item.UnitPrice, item.ItemAmount).Scan(&lineID); err != nil {
			return domain.Order{}, fmt.Errorf("insert order item: %w", mapPgError(err))
		}
		item.ID = lineID
		item.OrderID = created.ID
		created.Items = append(created.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, fmt.Errorf("commit order tx: %w", err)
	}
	return created, nil
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	items, err := r.loadOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *Repository) loadOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price::double precision, item_amount::double precision
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items %d: %w", orderID, err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.ItemAmount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items %d: %w", orderID, err)
	}
	return items, nil
}

func (r *Repository) ListOrders(ctx context.Context, filter OrderListFilter) ([]domain.Order, error) {
	limit := normalizeLimit(filter.Limit)
	offset := normalizeOffset(filter.Offset)

	base := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	argIndex := 1
	if filter.CustomerID != nil {
		base += fmt.Sprintf(" AND customer_id = $%d", argIndex)
		args = append(args, *filter.CustomerID)
		argIndex++
	}
	if filter.From != nil {
		base += fmt.Sprintf(" AND order_date >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		base += fmt.Sprintf(" AND order_date <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}
	base += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, base, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *Repository) PatchOrder(ctx context.Context, id int64, input OrderPatchInput) (*domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin patch order tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order for patch: %w", err)
	}

	if input.OrderDate != nil {
		order.OrderDate = *input.OrderDate
	}
	if input.PaymentMethod != nil {
		order.PaymentMethod = input.PaymentMethod
	}
	if input.Notes != nil {
		order.Notes = input.Notes
	}

	row = tx.QueryRow(ctx, `
		UPDATE orders
		SET order_date = $2, payment_method = $3, notes = $4
		WHERE id = $1
		RETURNING `+orderColumns,
		order.ID, order.OrderDate, order.PaymentMethod, order.Notes,
	)
	updated, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("patch order %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit patch order tx: %w", err)
	}

	items, err := r.loadOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	updated.Items = items
	return &updated, nil
}

// DeleteOrder removes an order; its line items and deliveries go with it
// via ON DELETE CASCADE.
func (r *Repository) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const deliveryColumns = `id, order_id, delivery_date, status`

func scanDelivery(row pgx.Row) (domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(&d.ID, &d.OrderID, &d.DeliveryDate, &d.Status)
	return d, err
}

func (r *Repository) CreateDelivery(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO deliveries (order_id, delivery_date, status)
		VALUES ($1, $2, $3)
		RETURNING `+deliveryColumns,
		delivery.OrderID, delivery.DeliveryDate, delivery.Status,
	)
	created, err := scanDelivery(row)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("create delivery: %w", mapPgError(err))
	}
	return created, nil
}

func (r *Repository) ListDeliveries(ctx context.Context, orderID int64) ([]domain.Delivery, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+deliveryColumns+`
		FROM deliveries
		WHERE order_id = $1
		ORDER BY id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries for order %d: %w", orderID, err)
	}
	defer rows.Close()

	deliveries := make([]domain.Delivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries for order %d: %w", orderID, err)
	}
	return deliveries, nil
}

func (r *Repository) UpdateDeliveryStatus(ctx context.Context, id int64, status string) (*domain.Delivery, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE deliveries
		SET status = $2
		WHERE id = $1
		RETURNING `+deliveryColumns,
		id, status,
	)
	delivery, err := scanDelivery(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update delivery %d: %w", id, mapPgError(err))
	}
	return &delivery, nil
}
