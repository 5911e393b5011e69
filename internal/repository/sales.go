package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type SaleListFilter struct {
	CustomerID *int64
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type SalePatchInput struct {
	SaleDate      *time.Time
	PaymentMethod *string
	Notes         *string
}

const saleColumns = `
	id,
	customer_id,
	user_id,
	sale_date,
	total_amount::double precision,
	payment_method,
	notes
`

func scanSale(row pgx.Row) (domain.Sale, error) {
	var s domain.Sale
	err := row.Scan(
		&s.ID,
		&s.CustomerID,
		&s.UserID,
		&s.SaleDate,
		&s.TotalAmount,
		&s.PaymentMethod,
		&s.Notes,
	)
	return s, err
}

// CreateSale persists a sale and its line items in one transaction and
// deducts each line's quantity from the product's stock. Product rows are
// locked FOR UPDATE so concurrent sales of the same product serialize.
func (r *Repository) CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error) {
	if len(sale.Items) == 0 {
		return domain.Sale{}, fmt.Errorf("%w: sale has no items", ErrInvalid)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("begin sale tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range sale.Items {
		var stock int
		err := tx.QueryRow(ctx,
			"SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE",
			item.ProductID,
		).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Sale{}, fmt.Errorf("%w: product %d does not exist", ErrInvalid, item.ProductID)
		}
		if err != nil {
			return domain.Sale{}, fmt.Errorf("load product %d for sale: %w", item.ProductID, err)
		}
		if stock < item.Quantity {
			return domain.Sale{}, fmt.Errorf("%w: product %d has %d in stock, %d requested",
				ErrInvalid, item.ProductID, stock, item.Quantity)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $2, updated_at = NOW()
			WHERE id = $1
		`, item.ProductID, item.Quantity); err != nil {
			return domain.Sale{}, fmt.Errorf("deduct stock for product %d: %w", item.ProductID, err)
		}
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO sales (customer_id, user_id, sale_date, total_amount, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+saleColumns,
		sale.CustomerID, sale.UserID, sale.SaleDate, sale.TotalAmount, sale.PaymentMethod, sale.Notes,
	)
	created, err := scanSale(row)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("insert sale: %w", mapPgError(err))
	}

	created.Items = make([]domain.SaleItem, 0, len(sale.Items))
	for _, item := range sale.Items {
		var lineID int64
		if err := tx.QueryRow(ctx, `
			INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, item_amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, created.ID, item.ProductID, item.Quantity, item.UnitPrice, item.ItemAmount).Scan(&lineID); err != nil {
			return domain.Sale{}, fmt.Errorf("insert sale item: %w", mapPgError(err))
		}
		item.ID = lineID
		item.SaleID = created.ID
		created.Items = append(created.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Sale{}, fmt.Errorf("commit sale tx: %w", err)
	}
	return created, nil
}

func (r *Repository) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get sale %d: %w", id, err)
	}

	items, err := r.loadSaleItems(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return &sale, nil
}

func (r *Repository) loadSaleItems(ctx context.Context, saleID int64) ([]domain.SaleItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price::double precision, item_amount::double precision
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id ASC
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("query sale items %d: %w", saleID, err)
	}
	defer rows.Close()

	items := make([]domain.SaleItem, 0)
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.ItemAmount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sale items %d: %w", saleID, err)
	}
	return items, nil
}

func (r *Repository) ListSales(ctx context.Context, filter SaleListFilter) ([]domain.Sale, error) {
	limit := normalizeLimit(filter.Limit)
	offset := normalizeOffset(filter.Offset)

	base := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	args := []any{}
	argIndex := 1
	if filter.CustomerID != nil {
		base += fmt.Sprintf(" AND customer_id = $%d", argIndex)
		args = append(args, *filter.CustomerID)
		argIndex++
	}
	if filter.From != nil {
		base += fmt.Sprintf(" AND sale_date >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		base += fmt.Sprintf(" AND sale_date <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}
	base += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, base, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, limit)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, nil
}

// PatchSale updates the header fields of a sale. Line items and the total
// are immutable; correcting them means deleting and re-creating the sale so
// stock stays consistent.
func (r *Repository) PatchSale(ctx context.Context, id int64, input SalePatchInput) (*domain.Sale, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin patch sale tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load sale for patch: %w", err)
	}

	if input.SaleDate != nil {
		sale.SaleDate = *input.SaleDate
	}
	if input.PaymentMethod != nil {
		sale.PaymentMethod = input.PaymentMethod
	}
	if input.Notes != nil {
		sale.Notes = input.Notes
	}

	row = tx.QueryRow(ctx, `
		UPDATE sales
		SET sale_date = $2, payment_method = $3, notes = $4
		WHERE id = $1
		RETURNING `+saleColumns,
		sale.ID, sale.SaleDate, sale.PaymentMethod, sale.Notes,
	)
	updated, err := scanSale(row)
	if err != nil {
		return nil, fmt.Errorf("patch sale %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit patch sale tx: %w", err)
	}

	items, err := r.loadSaleItems(ctx, id)
	if err != nil {
		return nil, err
	}
	updated.Items = items
	return &updated, nil
}

// DeleteSale removes a sale, returning the sold quantities to stock before
// the cascade removes the line items.
func (r *Repository) DeleteSale(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete sale tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		"SELECT product_id, quantity FROM sale_items WHERE sale_id = $1",
		id,
	)
	if err != nil {
		return fmt.Errorf("load sale items for delete %d: %w", id, err)
	}
	type restock struct {
		productID int64
		quantity  int
	}
	restocks := make([]restock, 0)
	for rows.Next() {
		var rs restock
		if err := rows.Scan(&rs.productID, &rs.quantity); err != nil {
			rows.Close()
			return err
		}
		restocks = append(restocks, rs)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate sale items for delete %d: %w", id, err)
	}

	for _, rs := range restocks {
		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity + $2, updated_at = NOW()
			WHERE id = $1
		`, rs.productID, rs.quantity); err != nil {
			return fmt.Errorf("restock product %d: %w", rs.productID, err)
		}
	}

	tag, err := tx.Exec(ctx, "DELETE FROM sales WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete sale %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete sale tx: %w", err)
	}
	return nil
}

// RecomputeMonthlySales rebuilds the monthly_sales aggregate table from the
// sale rows. Returns the number of months written.
func (r *Repository) RecomputeMonthlySales(ctx context.Context) (int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			to_char(s.sale_date, 'YYYY-MM') AS month,
			COUNT(DISTINCT s.id) AS sales_count,
			COALESCE(SUM(si.item_amount), 0)::double precision AS revenue,
			COALESCE(SUM(si.quantity * (si.unit_price - p.cost_price)), 0)::double precision AS profit,
			COUNT(DISTINCT s.customer_id) AS customers,
			COUNT(DISTINCT si.product_id) AS products
		FROM sales s
		JOIN sale_items si ON si.sale_id = s.id
		JOIN products p ON p.id = si.product_id
		GROUP BY 1
		ORDER BY 1 ASC
	`)
	if err != nil {
		return 0, fmt.Errorf("aggregate monthly sales: %w", err)
	}
	defer rows.Close()

	months := make([]domain.MonthlySales, 0)
	for rows.Next() {
		var (
			m         domain.MonthlySales
			customers int
			products  int
		)
		if err := rows.Scan(&m.Month, &m.Sales, &m.Revenue, &m.Profit, &customers, &products); err != nil {
			return 0, err
		}
		if m.Revenue != 0 {
			m.ProfitMargin = m.Profit / m.Revenue
		}
		if m.Sales > 0 {
			m.RevenuePerSale = m.Revenue / float64(m.Sales)
			m.ProfitPerSale = m.Profit / float64(m.Sales)
		}
		if customers > 0 {
			m.RevenuePerCustomer = m.Revenue / float64(customers)
			m.ProfitPerCustomer = m.Profit / float64(customers)
		}
		if products > 0 {
			m.RevenuePerProduct = m.Revenue / float64(products)
			m.ProfitPerProduct = m.Profit / float64(products)
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate monthly sales: %w", err)
	}

	for i := range months {
		if i == 0 {
			continue
		}
		prev := months[i-1]
		if prev.Revenue != 0 {
			months[i].RevenueGrowth = (months[i].Revenue - prev.Revenue) / prev.Revenue
		}
		if prev.Profit != 0 {
			months[i].ProfitGrowth = (months[i].Profit - prev.Profit) / prev.Profit
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin monthly sales tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM monthly_sales"); err != nil {
		return 0, fmt.Errorf("clear monthly sales: %w", err)
	}
	for _, m := range months {
		if _, err := tx.Exec(ctx, `
			INSERT INTO monthly_sales (
				month, sales, profit, revenue, profit_margin,
				revenue_growth, profit_growth,
				revenue_per_sale, profit_per_sale,
				revenue_per_customer, profit_per_customer,
				revenue_per_product, profit_per_product
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`,
			m.Month, m.Sales, m.Profit, m.Revenue, m.ProfitMargin,
			m.RevenueGrowth, m.ProfitGrowth,
			m.RevenuePerSale, m.ProfitPerSale,
			m.RevenuePerCustomer, m.ProfitPerCustomer,
			m.RevenuePerProduct, m.ProfitPerProduct,
		); err != nil {
			return 0, fmt.Errorf("insert monthly sales %s: %w", m.Month, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit monthly sales tx: %w", err)
	}
	return len(months), nil
}

func (r *Repository) ListMonthlySales(ctx context.Context, limit int) ([]domain.MonthlySales, error) {
	limit = normalizeLimit(limit)
	rows, err := r.pool.Query(ctx, `
		SELECT
			month, sales,
			profit::double precision,
			revenue::double precision,
			profit_margin::double precision,
			revenue_growth::double precision,
			profit_growth::double precision,
			revenue_per_sale::double precision,
			profit_per_sale::double precision,
			revenue_per_customer::double precision,
			profit_per_customer::double precision,
			revenue_per_product::double precision,
			profit_per_product::double precision
		FROM monthly_sales
		ORDER BY month DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list monthly sales: %w", err)
	}
	defer rows.Close()

	months := make([]domain.MonthlySales, 0, limit)
	for rows.Next() {
		var m domain.MonthlySales
		if err := rows.Scan(
			&m.Month, &m.Sales, &m.Profit, &m.Revenue, &m.ProfitMargin,
			&m.RevenueGrowth, &m.ProfitGrowth,
			&m.RevenuePerSale, &m.ProfitPerSale,
			&m.RevenuePerCustomer, &m.ProfitPerCustomer,
			&m.RevenuePerProduct, &m.ProfitPerProduct,
		); err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly sales: %w", err)
	}
	return months, nil
}
