package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/domain"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

// LineInput is one requested line of an order or sale. Amounts are never
// taken from the client; item_amount = quantity * unit_price is computed
// here and the aggregate total is the sum across lines.
type LineInput struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderCreateInput struct {
	CustomerID    *int64
	UserID        *int64
	OrderDate     time.Time
	PaymentMethod *string
	Notes         *string
	Items         []LineInput
}

type SaleCreateInput struct {
	CustomerID    *int64
	UserID        *int64
	SaleDate      time.Time
	PaymentMethod *string
	Notes         *string
	Items         []LineInput
}

func validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: at least one item is required", repository.ErrInvalid)
	}
	for i, line := range lines {
		if line.ProductID <= 0 {
			return fmt.Errorf("%w: item %d has no product", repository.ErrInvalid, i+1)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", repository.ErrInvalid, i+1)
		}
		if line.UnitPrice < 0 {
			return fmt.Errorf("%w: item %d unit_price cannot be negative", repository.ErrInvalid, i+1)
		}
	}
	return nil
}

// computeLineAmounts does the money math in decimal so 3 * 9.99 comes out
// as 29.97, not 29.970000000000002.
func computeLineAmounts(lines []LineInput) ([]float64, float64) {
	amounts := make([]float64, len(lines))
	total := decimal.Zero
	for i, line := range lines {
		amount := decimal.NewFromFloat(line.UnitPrice).
			Mul(decimal.NewFromInt(int64(line.Quantity))).
			Round(4)
		amounts[i] = amount.InexactFloat64()
		total = total.Add(amount)
	}
	return amounts, total.Round(4).InexactFloat64()
}

func (s *Service) CreateOrder(ctx context.Context, input OrderCreateInput) (domain.Order, error) {
	if err := validateLines(input.Items); err != nil {
		return domain.Order{}, err
	}
	if input.OrderDate.IsZero() {
		input.OrderDate = time.Now()
	}

	amounts, total := computeLineAmounts(input.Items)
	order := domain.Order{
		CustomerID:    input.CustomerID,
		UserID:        input.UserID,
		OrderDate:     input.OrderDate,
		TotalAmount:   total,
		PaymentMethod: normalizeNullable(input.PaymentMethod),
		Notes:         normalizeNullable(input.Notes),
		Items:         make([]domain.OrderItem, len(input.Items)),
	}
	for i, line := range input.Items {
		order.Items[i] = domain.OrderItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			ItemAmount: amounts[i],
		}
	}
	return s.store.CreateOrder(ctx, order)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.store.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, filter repository.OrderListFilter) ([]domain.Order, error) {
	return s.store.ListOrders(ctx, filter)
}

func (s *Service) PatchOrder(ctx context.Context, id int64, input repository.OrderPatchInput) (*domain.Order, error) {
	return s.store.PatchOrder(ctx, id, input)
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.store.DeleteOrder(ctx, id)
}

func (s *Service) CreateSale(ctx context.Context, input SaleCreateInput) (domain.Sale, error) {
	if err := validateLines(input.Items); err != nil {
		return domain.Sale{}, err
	}
	if input.SaleDate.IsZero() {
		input.SaleDate = time.Now()
	}

	amounts, total := computeLineAmounts(input.Items)
	sale := domain.Sale{
		CustomerID:    input.CustomerID,
		UserID:        input.UserID,
		SaleDate:      input.SaleDate,
		TotalAmount:   total,
		PaymentMethod: normalizeNullable(input.PaymentMethod),
		Notes:         normalizeNullable(input.Notes),
		Items:         make([]domain.SaleItem, len(input.Items)),
	}
	for i, line := range input.Items {
		sale.Items[i] = domain.SaleItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			ItemAmount: amounts[i],
		}
	}
	return s.store.CreateSale(ctx, sale)
}

func (s *Service) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	return s.store.GetSale(ctx, id)
}

func (s *Service) ListSales(ctx context.Context, filter repository.SaleListFilter) ([]domain.Sale, error) {
	return s.store.ListSales(ctx, filter)
}

func (s *Service) PatchSale(ctx context.Context, id int64, input repository.SalePatchInput) (*domain.Sale, error) {
	return s.store.PatchSale(ctx, id, input)
}

func (s *Service) DeleteSale(ctx context.Context, id int64) error {
	return s.store.DeleteSale(ctx, id)
}

func (s *Service) CreateDelivery(ctx context.Context, orderID int64, deliveryDate time.Time, status string) (domain.Delivery, error) {
	if status == "" {
		status = domain.DeliveryPending
	}
	if !domain.ValidDeliveryStatus(status) {
		return domain.Delivery{}, fmt.Errorf("%w: unknown delivery status %q", repository.ErrInvalid, status)
	}
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		return domain.Delivery{}, err
	}
	if deliveryDate.IsZero() {
		deliveryDate = time.Now()
	}
	return s.store.CreateDelivery(ctx, domain.Delivery{
		OrderID:      orderID,
		DeliveryDate: deliveryDate,
		Status:       status,
	})
}

func (s *Service) ListDeliveries(ctx context.Context, orderID int64) ([]domain.Delivery, error) {
	if _, err := s.store.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.store.ListDeliveries(ctx, orderID)
}

func (s *Service) UpdateDeliveryStatus(ctx context.Context, id int64, status string) (*domain.Delivery, error) {
	if !domain.ValidDeliveryStatus(status) {
		return nil, fmt.Errorf("%w: unknown delivery status %q", repository.ErrInvalid, status)
	}
	return s.store.UpdateDeliveryStatus(ctx, id, status)
}
