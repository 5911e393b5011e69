package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type WarehouseCreateInput struct {
	Name    string
	Address *string
	Phone   *string
	Email   *string
}

type WarehousePatchInput struct {
	Name    *string
	Address *string
	Phone   *string
	Email   *string
}

const warehouseColumns = `id, warehouse_name, address, phone, email`

func scanWarehouse(row pgx.Row) (domain.Warehouse, error) {
	var w domain.Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.Address, &w.Phone, &w.Email)
	return w, err
}

func (r *Repository) CreateWarehouse(ctx context.Context, input WarehouseCreateInput) (domain.Warehouse, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO warehouses (warehouse_name, address, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING `+warehouseColumns,
		input.Name, input.Address, input.Phone, input.Email,
	)
	warehouse, err := scanWarehouse(row)
	if err != nil {
		return domain.Warehouse{}, fmt.Errorf("create warehouse: %w", mapPgError(err))
	}
	return warehouse, nil
}

func (r *Repository) GetWarehouse(ctx context.Context, id int64) (*domain.Warehouse, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id)
	warehouse, err := scanWarehouse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get warehouse %d: %w", id, err)
	}
	return &warehouse, nil
}

func (r *Repository) ListWarehouses(ctx context.Context, limit, offset int) ([]domain.Warehouse, error) {
	limit = normalizeLimit(limit)
	offset = normalizeOffset(offset)
	rows, err := r.pool.Query(ctx, `
		SELECT `+warehouseColumns+`
		FROM warehouses
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()

	warehouses := make([]domain.Warehouse, 0, limit)
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warehouses: %w", err)
	}
	return warehouses, nil
}

func (r *Repository) PatchWarehouse(ctx context.Context, id int64, input WarehousePatchInput) (*domain.Warehouse, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin patch warehouse tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1 FOR UPDATE`, id)
	warehouse, err := scanWarehouse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load warehouse for patch: %w", err)
	}

	if input.Name != nil {
		warehouse.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		warehouse.Address = input.Address
	}
	if input.Phone != nil {
		warehouse.Phone = input.Phone
	}
	if input.Email != nil {
		warehouse.Email = input.Email
	}

	row = tx.QueryRow(ctx, `
		UPDATE warehouses
		SET warehouse_name = $2, address = $3, phone = $4, email = $5
		WHERE id = $1
		RETURNING `+warehouseColumns,
		warehouse.ID, warehouse.Name, warehouse.Address, warehouse.Phone, warehouse.Email,
	)
	updated, err := scanWarehouse(row)
	if err != nil {
		return nil, fmt.Errorf("patch warehouse %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit patch warehouse tx: %w", err)
	}
	return &updated, nil
}

// DeleteWarehouse removes a warehouse; its items go with it via the
// ON DELETE CASCADE on warehouse_items.
func (r *Repository) DeleteWarehouse(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM warehouses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete warehouse %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const warehouseItemColumns = `id, warehouse_id, product_id, quantity`

func scanWarehouseItem(row pgx.Row) (domain.WarehouseItem, error) {
	var item domain.WarehouseItem
	err := row.Scan(&item.ID, &item.WarehouseID, &item.ProductID, &item.Quantity)
	return item, err
}

// AddWarehouseItem inserts a stock row for a product in a warehouse, or
// adds to the existing row's quantity when one is already present.
func (r *Repository) AddWarehouseItem(ctx context.Context, warehouseID, productID int64, quantity int) (domain.WarehouseItem, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO warehouse_items (warehouse_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT uq_warehouse_items_product
		DO UPDATE SET quantity = warehouse_items.quantity + EXCLUDED.quantity
		RETURNING `+warehouseItemColumns,
		warehouseID, productID, quantity,
	)
	item, err := scanWarehouseItem(row)
	if err != nil {
		return domain.WarehouseItem{}, fmt.Errorf("add warehouse item: %w", mapPgError(err))
	}
	return item, nil
}

func (r *Repository) ListWarehouseItems(ctx context.Context, warehouseID int64) ([]domain.WarehouseItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+warehouseItemColumns+`
		FROM warehouse_items
		WHERE warehouse_id = $1
		ORDER BY id ASC
	`, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list warehouse items %d: %w", warehouseID, err)
	}
	defer rows.Close()

	items := make([]domain.WarehouseItem, 0)
	for rows.Next() {
		item, err := scanWarehouseItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate warehouse items %d: %w", warehouseID, err)
	}
	return items, nil
}

func (r *Repository) UpdateWarehouseItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.WarehouseItem, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE warehouse_items
		SET quantity = $2
		WHERE id = $1
		RETURNING `+warehouseItemColumns,
		itemID, quantity,
	)
	item, err := scanWarehouseItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update warehouse item %d: %w", itemID, mapPgError(err))
	}
	return &item, nil
}

func (r *Repository) DeleteWarehouseItem(ctx context.Context, itemID int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM warehouse_items WHERE id = $1", itemID)
	if err != nil {
		return fmt.Errorf("delete warehouse item %d: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
