package service

import (
	"context"
	"fmt"
	"strings"

	"backend/internal/domain"
	"backend/internal/repository"
)

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) CreateProduct(ctx context.Context, input repository.ProductCreateInput) (domain.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.Product{}, fmt.Errorf("%w: name is required", repository.ErrInvalid)
	}
	if input.Price < 0 {
		return domain.Product{}, fmt.Errorf("%w: price cannot be negative", repository.ErrInvalid)
	}
	if input.CostPrice < 0 {
		return domain.Product{}, fmt.Errorf("%w: cost_price cannot be negative", repository.ErrInvalid)
	}
	if input.StockQuantity < 0 {
		return domain.Product{}, fmt.Errorf("%w: stock_quantity cannot be negative", repository.ErrInvalid)
	}
	input.Barcode = normalizeNullable(input.Barcode)
	input.Category = normalizeNullable(input.Category)
	return s.store.CreateProduct(ctx, input)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter repository.ProductListFilter) ([]domain.Product, error) {
	return s.store.ListProducts(ctx, filter)
}

func (s *Service) PatchProduct(ctx context.Context, id int64, input repository.ProductPatchInput) (*domain.Product, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", repository.ErrInvalid)
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", repository.ErrInvalid)
	}
	if input.CostPrice != nil && *input.CostPrice < 0 {
		return nil, fmt.Errorf("%w: cost_price cannot be negative", repository.ErrInvalid)
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock_quantity cannot be negative", repository.ErrInvalid)
	}
	return s.store.PatchProduct(ctx, id, input)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.store.DeleteProduct(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, input repository.CustomerCreateInput) (domain.Customer, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.Customer{}, fmt.Errorf("%w: name is required", repository.ErrInvalid)
	}
	input.Email = normalizeNullable(input.Email)
	input.Phone = normalizeNullable(input.Phone)
	input.Address = normalizeNullable(input.Address)
	return s.store.CreateCustomer(ctx, input)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, search string, limit, offset int) ([]domain.Customer, error) {
	return s.store.ListCustomers(ctx, search, limit, offset)
}

func (s *Service) PatchCustomer(ctx context.Context, id int64, input repository.CustomerPatchInput) (*domain.Customer, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", repository.ErrInvalid)
	}
	return s.store.PatchCustomer(ctx, id, input)
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.store.DeleteCustomer(ctx, id)
}

func (s *Service) CreateWarehouse(ctx context.Context, input repository.WarehouseCreateInput) (domain.Warehouse, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.Warehouse{}, fmt.Errorf("%w: name is required", repository.ErrInvalid)
	}
	input.Address = normalizeNullable(input.Address)
	input.Phone = normalizeNullable(input.Phone)
	input.Email = normalizeNullable(input.Email)
	return s.store.CreateWarehouse(ctx, input)
}

func (s *Service) GetWarehouse(ctx context.Context, id int64) (*domain.Warehouse, error) {
	return s.store.GetWarehouse(ctx, id)
}

func (s *Service) ListWarehouses(ctx context.Context, limit, offset int) ([]domain.Warehouse, error) {
	return s.store.ListWarehouses(ctx, limit, offset)
}

func (s *Service) PatchWarehouse(ctx context.Context, id int64, input repository.WarehousePatchInput) (*domain.Warehouse, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", repository.ErrInvalid)
	}
	return s.store.PatchWarehouse(ctx, id, input)
}

func (s *Service) DeleteWarehouse(ctx context.Context, id int64) error {
	return s.store.DeleteWarehouse(ctx, id)
}

func (s *Service) AddWarehouseItem(ctx context.Context, warehouseID, productID int64, quantity int) (domain.WarehouseItem, error) {
	if quantity < 0 {
		return domain.WarehouseItem{}, fmt.Errorf("%w: quantity cannot be negative", repository.ErrInvalid)
	}
	if _, err := s.store.GetWarehouse(ctx, warehouseID); err != nil {
		return domain.WarehouseItem{}, err
	}
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return domain.WarehouseItem{}, err
	}
	return s.store.AddWarehouseItem(ctx, warehouseID, productID, quantity)
}

func (s *Service) ListWarehouseItems(ctx context.Context, warehouseID int64) ([]domain.WarehouseItem, error) {
	if _, err := s.store.GetWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.store.ListWarehouseItems(ctx, warehouseID)
}

func (s *Service) UpdateWarehouseItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.WarehouseItem, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", repository.ErrInvalid)
	}
	return s.store.UpdateWarehouseItemQuantity(ctx, itemID, quantity)
}

func (s *Service) DeleteWarehouseItem(ctx context.Context, itemID int64) error {
	return s.store.DeleteWarehouseItem(ctx, itemID)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.store.ListUsers(ctx, limit, offset)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) DeactivateUser(ctx context.Context, id int64) (*domain.InactiveAccount, error) {
	return s.store.DeactivateUser(ctx, id)
}

func (s *Service) RecomputeMonthlySales(ctx context.Context) (int, error) {
	return s.store.RecomputeMonthlySales(ctx)
}

func (s *Service) ListMonthlySales(ctx context.Context, limit int) ([]domain.MonthlySales, error) {
	return s.store.ListMonthlySales(ctx, limit)
}

func normalizeNullable(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
