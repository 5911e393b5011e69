package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid input")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// mapPgError converts unique- and foreign-key violations into the
// repository sentinels so callers can branch without knowing pg codes.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		case "23503", "23514":
			return fmt.Errorf("%w: %s", ErrInvalid, pgErr.ConstraintName)
		}
	}
	return err
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 200
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

type ProductListFilter struct {
	Search    string
	Limit     int
	Offset    int
	Threshold *int
}

type ProductCreateInput struct {
	Name          string
	Price         float64
	CostPrice     float64
	StockQuantity int
	Barcode       *string
	Category      *string
	Description   *string
}

type ProductPatchInput struct {
	Name          *string
	Price         *float64
	CostPrice     *float64
	StockQuantity *int
	Barcode       *string
	Category      *string
	Description   *string
}

const productColumns = `
	id,
	product_name,
	price::double precision,
	cost_price::double precision,
	stock_quantity,
	barcode,
	category,
	description,
	created_at,
	updated_at
`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.CostPrice,
		&p.StockQuantity,
		&p.Barcode,
		&p.Category,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *Repository) CreateProduct(ctx context.Context, input ProductCreateInput) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (
			product_name,
			price,
			cost_price,
			stock_quantity,
			barcode,
			category,
			description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+productColumns,
		input.Name,
		input.Price,
		input.CostPrice,
		input.StockQuantity,
		input.Barcode,
		input.Category,
		input.Description,
	)
	product, err := scanProduct(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", mapPgError(err))
	}
	return product, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

func (r *Repository) ListProducts(ctx context.Context, filter ProductListFilter) ([]domain.Product, error) {
	limit := normalizeLimit(filter.Limit)
	offset := normalizeOffset(filter.Offset)
	search := strings.TrimSpace(filter.Search)

	base := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR product_name ILIKE '%' || $1 || '%')
	`
	args := []any{search}
	argIndex := 2
	if filter.Threshold != nil {
		base += fmt.Sprintf(" AND stock_quantity <= $%d", argIndex)
		args = append(args, *filter.Threshold)
		argIndex++
	}
	base += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, base, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *Repository) PatchProduct(ctx context.Context, id int64, input ProductPatchInput) (*domain.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin patch product tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load product for patch: %w", err)
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CostPrice != nil {
		product.CostPrice = *input.CostPrice
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.Barcode != nil {
		product.Barcode = input.Barcode
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.Description != nil {
		product.Description = input.Description
	}

	row = tx.QueryRow(ctx, `
		UPDATE products
		SET
			product_name = $2,
			price = $3,
			cost_price = $4,
			stock_quantity = $5,
			barcode = $6,
			category = $7,
			description = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		product.ID,
		product.Name,
		product.Price,
		product.CostPrice,
		product.StockQuantity,
		product.Barcode,
		product.Category,
		product.Description,
	)
	updated, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("patch product %d: %w", id, mapPgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit patch product tx: %w", err)
	}
	return &updated, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type CustomerCreateInput struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
}

type CustomerPatchInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

const customerColumns = `id, customer_name, email, phone, address, created_at`

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
	return c, err
}

func (r *Repository) CreateCustomer(ctx context.Context, input CustomerCreateInput) (domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (customer_name, email, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING `+customerColumns,
		input.Name, input.Email, input.Phone, input.Address,
	)
	customer, err := scanCustomer(row)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("create customer: %w", mapPgError(err))
	}
	return customer, nil
}

func (r *Repository) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return &customer, nil
}

func (r *Repository) ListCustomers(ctx context.Context, search string, limit, offset int) ([]domain.Customer, error) {
	limit = normalizeLimit(limit)
	offset = normalizeOffset(offset)
	rows, err := r.pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE ($1 = '' OR customer_name ILIKE '%' || $1 || '%')
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

func (r *Repository) PatchCustomer(ctx context.Context, id int64, input CustomerPatchInput) (*domain.Customer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin patch customer tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)
	customer, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load customer for patch: %w", err)
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}

	row = tx.QueryRow(ctx, `
		UPDATE customers
		SET customer_name = $2, email = $3, phone = $4, address = $5
		WHERE id = $1
		RETURNING `+customerColumns,
		customer.ID, customer.Name, customer.Email, customer.Phone, customer.Address,
	)
	updated, err := scanCustomer(row)
	if err != nil {
		return nil, fmt.Errorf("patch customer %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit patch customer tx: %w", err)
	}
	return &updated, nil
}

func (r *Repository) DeleteCustomer(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
