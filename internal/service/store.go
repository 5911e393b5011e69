package service

import (
	"context"

	"backend/internal/domain"
	"backend/internal/repository"
)

// Store is the persistence surface the service needs. The Postgres
// repository is the production implementation; tests use an in-memory one.
type Store interface {
	CreateProduct(ctx context.Context, input repository.ProductCreateInput) (domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductListFilter) ([]domain.Product, error)
	PatchProduct(ctx context.Context, id int64, input repository.ProductPatchInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	CreateCustomer(ctx context.Context, input repository.CustomerCreateInput) (domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context, search string, limit, offset int) ([]domain.Customer, error)
	PatchCustomer(ctx context.Context, id int64, input repository.CustomerPatchInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error

	CreateWarehouse(ctx context.Context, input repository.WarehouseCreateInput) (domain.Warehouse, error)
	GetWarehouse(ctx context.Context, id int64) (*domain.Warehouse, error)
	ListWarehouses(ctx context.Context, limit, offset int) ([]domain.Warehouse, error)
	PatchWarehouse(ctx context.Context, id int64, input repository.WarehousePatchInput) (*domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id int64) error
	AddWarehouseItem(ctx context.Context, warehouseID, productID int64, quantity int) (domain.WarehouseItem, error)
	ListWarehouseItems(ctx context.Context, warehouseID int64) ([]domain.WarehouseItem, error)
	UpdateWarehouseItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.WarehouseItem, error)
	DeleteWarehouseItem(ctx context.Context, itemID int64) error

	CreateUser(ctx context.Context, input repository.UserCreateInput) (domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	PatchUser(ctx context.Context, id int64, input repository.UserPatchInput) (*domain.User, error)
	CountUsers(ctx context.Context) (int, error)
	DeactivateUser(ctx context.Context, id int64) (*domain.InactiveAccount, error)

	CreateSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderListFilter) ([]domain.Order, error)
	PatchOrder(ctx context.Context, id int64, input repository.OrderPatchInput) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error

	CreateDelivery(ctx context.Context, delivery domain.Delivery) (domain.Delivery, error)
	ListDeliveries(ctx context.Context, orderID int64) ([]domain.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id int64, status string) (*domain.Delivery, error)

	CreateSale(ctx context.Context, sale domain.Sale) (domain.Sale, error)
	GetSale(ctx context.Context, id int64) (*domain.Sale, error)
	ListSales(ctx context.Context, filter repository.SaleListFilter) ([]domain.Sale, error)
	PatchSale(ctx context.Context, id int64, input repository.SalePatchInput) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id int64) error

	RecomputeMonthlySales(ctx context.Context) (int, error)
	ListMonthlySales(ctx context.Context, limit int) ([]domain.MonthlySales, error)
}
