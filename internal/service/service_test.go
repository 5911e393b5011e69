package service_test

import (
	"context"
	"testing"

	"backend/internal/repository"
	"backend/internal/repository/memory"
	"backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both store implementations must satisfy the same contract.
var (
	_ service.Store = (*memory.Store)(nil)
	_ service.Store = (*repository.Repository)(nil)
)

func newService() *service.Service {
	return service.New(memory.New())
}

func strPtr(v string) *string { return &v }

func TestCreateProductThenGet(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, repository.ProductCreateInput{
		Name:          "Keyboard",
		Price:         49.9,
		CostPrice:     30,
		StockQuantity: 12,
		Barcode:       strPtr("KB-001"),
		Category:      strPtr("peripherals"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Price, got.Price)
	assert.Equal(t, created.StockQuantity, got.StockQuantity)
	require.NotNil(t, got.Barcode)
	assert.Equal(t, "KB-001", *got.Barcode)
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, repository.ProductCreateInput{Name: "   ", Price: 1})
	assert.ErrorIs(t, err, repository.ErrInvalid)

	_, err = svc.CreateProduct(ctx, repository.ProductCreateInput{Name: "Mouse", Price: -1})
	assert.ErrorIs(t, err, repository.ErrInvalid)

	_, err = svc.CreateProduct(ctx, repository.ProductCreateInput{Name: "Mouse", Price: 1, StockQuantity: -3})
	assert.ErrorIs(t, err, repository.ErrInvalid)
}

func TestCreateProductDuplicateBarcode(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, repository.ProductCreateInput{Name: "A", Price: 1, Barcode: strPtr("X1")})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, repository.ProductCreateInput{Name: "B", Price: 2, Barcode: strPtr("X1")})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()
	svc := newService()

	_, err := svc.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPatchProductPartialUpdate(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, repository.ProductCreateInput{Name: "Webcam", Price: 80, StockQuantity: 4})
	require.NoError(t, err)

	newPrice := 75.5
	updated, err := svc.PatchProduct(ctx, created.ID, repository.ProductPatchInput{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 75.5, updated.Price)
	// Untouched fields survive the patch.
	assert.Equal(t, "Webcam", updated.Name)
	assert.Equal(t, 4, updated.StockQuantity)
}

func TestListProductsLowStock(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, repository.ProductCreateInput{Name: "Plenty", Price: 1, StockQuantity: 50})
	require.NoError(t, err)
	low, err := svc.CreateProduct(ctx, repository.ProductCreateInput{Name: "Scarce", Price: 1, StockQuantity: 2})
	require.NoError(t, err)

	threshold := 5
	items, err := svc.ListProducts(ctx, repository.ProductListFilter{Threshold: &threshold})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}

func TestCustomerLifecycle(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, repository.CustomerCreateInput{
		Name:  "Acme Ltd",
		Email: strPtr("billing@acme.test"),
	})
	require.NoError(t, err)

	got, err := svc.GetCustomer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.Name)

	newName := "Acme Limited"
	updated, err := svc.PatchCustomer(ctx, created.ID, repository.CustomerPatchInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Acme Limited", updated.Name)

	require.NoError(t, svc.DeleteCustomer(ctx, created.ID))
	_, err = svc.GetCustomer(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWarehouseItems(t *testing.T) {
	t.Parallel()
	svc := newService()
	ctx := context.Background()

	warehouse, err := svc.CreateWarehouse(ctx, repository.WarehouseCreateInput{Name: "Central"})
	require.NoError(t, err)
	product, err := svc.CreateProduct(ctx, repository.ProductCreateInput{Name: "Crate", Price: 5})
	require.NoError(t, err)

	item, err := svc.AddWarehouseItem(ctx, warehouse.ID, product.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)

	// Adding the same product again tops up the existing row.
	item, err = svc.AddWarehouseItem(ctx, warehouse.ID, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, item.Quantity)

	items, err := svc.ListWarehouseItems(ctx, warehouse.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	updated, err := svc.UpdateWarehouseItemQuantity(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	_, err = svc.AddWarehouseItem(ctx, warehouse.ID, 999, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Stock quantities never go negative.
	_, err = svc.AddWarehouseItem(ctx, warehouse.ID, product.ID, -1)
	assert.ErrorIs(t, err, repository.ErrInvalid)
	_, err = svc.UpdateWarehouseItemQuantity(ctx, item.ID, -1)
	assert.ErrorIs(t, err, repository.ErrInvalid)
}
