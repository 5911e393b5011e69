// Package memory holds an in-memory implementation of the service store
// contract. It mirrors the Postgres repository's constraint behavior
// (unique barcode/username, cascading line-item deletes, stock deduction)
// so service and handler tests can run without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"backend/internal/domain"
	"backend/internal/repository"
)

type Store struct {
	mu sync.Mutex

	nextID int64

	products       map[int64]domain.Product
	customers      map[int64]domain.Customer
	users          map[int64]domain.User
	inactive       map[int64]domain.InactiveAccount
	warehouses     map[int64]domain.Warehouse
	warehouseItems map[int64]domain.WarehouseItem
	orders         map[int64]domain.Order
	sales          map[int64]domain.Sale
	deliveries     map[int64]domain.Delivery
	sessions       map[string]domain.Session
	monthly        []domain.MonthlySales
}

func New() *Store {
	return &Store{
		products:       make(map[int64]domain.Product),
		customers:      make(map[int64]domain.Customer),
		users:          make(map[int64]domain.User),
		inactive:       make(map[int64]domain.InactiveAccount),
		warehouses:     make(map[int64]domain.Warehouse),
		warehouseItems: make(map[int64]domain.WarehouseItem),
		orders:         make(map[int64]domain.Order),
		sales:          make(map[int64]domain.Sale),
		deliveries:     make(map[int64]domain.Delivery),
		sessions:       make(map[string]domain.Session),
	}
}

func (s *Store) nextKey() int64 {
	s.nextID++
	return s.nextID
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) CreateProduct(_ context.Context, input repository.ProductCreateInput) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Barcode != nil {
		for _, p := range s.products {
			if p.Barcode != nil && *p.Barcode == *input.Barcode {
				return domain.Product{}, fmt.Errorf("%w: uq_products_barcode", repository.ErrConflict)
			}
		}
	}

	now := time.Now()
	product := domain.Product{
		ID:            s.nextKey(),
		Name:          input.Name,
		Price:         input.Price,
		CostPrice:     input.CostPrice,
		StockQuantity: input.StockQuantity,
		Barcode:       input.Barcode,
		Category:      input.Category,
		Description:   input.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &product, nil
}

func (s *Store) ListProducts(_ context.Context, filter repository.ProductListFilter) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Product, 0, len(s.products))
	for _, id := range sortedIDs(s.products) {
		p := s.products[id]
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if filter.Threshold != nil && p.StockQuantity > *filter.Threshold {
			continue
		}
		out = append(out, p)
	}
	return paginate(out, filter.Limit, filter.Offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (s *Store) PatchProduct(_ context.Context, id int64, input repository.ProductPatchInput) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
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
		for _, other := range s.products {
			if other.ID != id && other.Barcode != nil && *other.Barcode == *input.Barcode {
				return nil, fmt.Errorf("%w: uq_products_barcode", repository.ErrConflict)
			}
		}
		product.Barcode = input.Barcode
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	product.UpdatedAt = time.Now()
	s.products[id] = product
	return &product, nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) CreateCustomer(_ context.Context, input repository.CustomerCreateInput) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer := domain.Customer{
		ID:        s.nextKey(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		CreatedAt: time.Now(),
	}
	s.customers[customer.ID] = customer
	return customer, nil
}

func (s *Store) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &customer, nil
}

func (s *Store) ListCustomers(_ context.Context, search string, limit, offset int) ([]domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Customer, 0, len(s.customers))
	for _, id := range sortedIDs(s.customers) {
		c := s.customers[id]
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		out = append(out, c)
	}
	return paginate(out, limit, offset), nil
}

func (s *Store) PatchCustomer(_ context.Context, id int64, input repository.CustomerPatchInput) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
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
	s.customers[id] = customer
	return &customer, nil
}

func (s *Store) DeleteCustomer(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *Store) CreateWarehouse(_ context.Context, input repository.WarehouseCreateInput) (domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	warehouse := domain.Warehouse{
		ID:      s.nextKey(),
		Name:    input.Name,
		Address: input.Address,
		Phone:   input.Phone,
		Email:   input.Email,
	}
	s.warehouses[warehouse.ID] = warehouse
	return warehouse, nil
}

func (s *Store) GetWarehouse(_ context.Context, id int64) (*domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	warehouse, ok := s.warehouses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &warehouse, nil
}

func (s *Store) ListWarehouses(_ context.Context, limit, offset int) ([]domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Warehouse, 0, len(s.warehouses))
	for _, id := range sortedIDs(s.warehouses) {
		out = append(out, s.warehouses[id])
	}
	return paginate(out, limit, offset), nil
}

func (s *Store) PatchWarehouse(_ context.Context, id int64, input repository.WarehousePatchInput) (*domain.Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	warehouse, ok := s.warehouses[id]
	if !ok {
		return nil, repository.ErrNotFound
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
	s.warehouses[id] = warehouse
	return &warehouse, nil
}

func (s *Store) DeleteWarehouse(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.warehouses, id)
	for itemID, item := range s.warehouseItems {
		if item.WarehouseID == id {
			delete(s.warehouseItems, itemID)
		}
	}
	return nil
}

func (s *Store) AddWarehouseItem(_ context.Context, warehouseID, productID int64, quantity int) (domain.WarehouseItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouses[warehouseID]; !ok {
		return domain.WarehouseItem{}, fmt.Errorf("%w: warehouse %d does not exist", repository.ErrInvalid, warehouseID)
	}
	if _, ok := s.products[productID]; !ok {
		return domain.WarehouseItem{}, fmt.Errorf("%w: product %d does not exist", repository.ErrInvalid, productID)
	}
	for itemID, item := range s.warehouseItems {
		if item.WarehouseID == warehouseID && item.ProductID == productID {
			item.Quantity += quantity
			s.warehouseItems[itemID] = item
			return item, nil
		}
	}
	item := domain.WarehouseItem{
		ID:          s.nextKey(),
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    quantity,
	}
	s.warehouseItems[item.ID] = item
	return item, nil
}

func (s *Store) ListWarehouseItems(_ context.Context, warehouseID int64) ([]domain.WarehouseItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WarehouseItem, 0)
	for _, id := range sortedIDs(s.warehouseItems) {
		if s.warehouseItems[id].WarehouseID == warehouseID {
			out = append(out, s.warehouseItems[id])
		}
	}
	return out, nil
}

func (s *Store) UpdateWarehouseItemQuantity(_ context.Context, itemID int64, quantity int) (*domain.WarehouseItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.warehouseItems[itemID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	item.Quantity = quantity
	s.warehouseItems[itemID] = item
	return &item, nil
}

func (s *Store) DeleteWarehouseItem(_ context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warehouseItems[itemID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.warehouseItems, itemID)
	return nil
}

func (s *Store) CreateUser(_ context.Context, input repository.UserCreateInput) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == input.Username {
			return domain.User{}, fmt.Errorf("%w: uq_users_username", repository.ErrConflict)
		}
	}
	if input.CustomerID != nil {
		if _, ok := s.customers[*input.CustomerID]; !ok {
			return domain.User{}, fmt.Errorf("%w: customer %d does not exist", repository.ErrInvalid, *input.CustomerID)
		}
	}
	user := domain.User{
		ID:           s.nextKey(),
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		CustomerID:   input.CustomerID,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context, limit, offset int) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.users))
	for _, id := range sortedIDs(s.users) {
		out = append(out, s.users[id])
	}
	return paginate(out, limit, offset), nil
}

func (s *Store) PatchUser(_ context.Context, id int64, input repository.UserPatchInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if input.PasswordHash != nil {
		user.PasswordHash = *input.PasswordHash
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.CustomerID != nil {
		if _, ok := s.customers[*input.CustomerID]; !ok {
			return nil, fmt.Errorf("%w: customer %d does not exist", repository.ErrInvalid, *input.CustomerID)
		}
		user.CustomerID = input.CustomerID
	}
	s.users[id] = user
	return &user, nil
}

func (s *Store) CountUsers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *Store) DeactivateUser(_ context.Context, id int64) (*domain.InactiveAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	email := ""
	if user.CustomerID != nil {
		if customer, ok := s.customers[*user.CustomerID]; ok && customer.Email != nil {
			email = *customer.Email
		}
	}
	account := domain.InactiveAccount{
		UserID:        user.ID,
		Username:      user.Username,
		Email:         email,
		PasswordHash:  user.PasswordHash,
		Role:          user.Role,
		DeactivatedAt: time.Now(),
	}
	s.inactive[user.ID] = account
	delete(s.users, id)
	for sessionID, session := range s.sessions {
		if session.UserID == id {
			delete(s.sessions, sessionID)
		}
	}
	return &account, nil
}

func (s *Store) CreateSession(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *Store) GetSession(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &session, nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(order.Items) == 0 {
		return domain.Order{}, fmt.Errorf("%w: order has no items", repository.ErrInvalid)
	}
	for _, item := range order.Items {
		if _, ok := s.products[item.ProductID]; !ok {
			return domain.Order{}, fmt.Errorf("%w: product %d does not exist", repository.ErrInvalid, item.ProductID)
		}
	}
	order.ID = s.nextKey()
	for i := range order.Items {
		order.Items[i].ID = s.nextKey()
		order.Items[i].OrderID = order.ID
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *Store) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &order, nil
}

func (s *Store) ListOrders(_ context.Context, filter repository.OrderListFilter) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, 0, len(s.orders))
	for _, id := range sortedIDs(s.orders) {
		o := s.orders[id]
		if filter.CustomerID != nil && (o.CustomerID == nil || *o.CustomerID != *filter.CustomerID) {
			continue
		}
		if filter.From != nil && o.OrderDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && o.OrderDate.After(*filter.To) {
			continue
		}
		out = append(out, o)
	}
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *Store) PatchOrder(_ context.Context, id int64, input repository.OrderPatchInput) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
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
	s.orders[id] = order
	return &order, nil
}

func (s *Store) DeleteOrder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orders, id)
	for deliveryID, delivery := range s.deliveries {
		if delivery.OrderID == id {
			delete(s.deliveries, deliveryID)
		}
	}
	return nil
}

func (s *Store) CreateDelivery(_ context.Context, delivery domain.Delivery) (domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[delivery.OrderID]; !ok {
		return domain.Delivery{}, fmt.Errorf("%w: order %d does not exist", repository.ErrInvalid, delivery.OrderID)
	}
	delivery.ID = s.nextKey()
	s.deliveries[delivery.ID] = delivery
	return delivery, nil
}

func (s *Store) ListDeliveries(_ context.Context, orderID int64) ([]domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Delivery, 0)
	for _, id := range sortedIDs(s.deliveries) {
		if s.deliveries[id].OrderID == orderID {
			out = append(out, s.deliveries[id])
		}
	}
	return out, nil
}

func (s *Store) UpdateDeliveryStatus(_ context.Context, id int64, status string) (*domain.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delivery, ok := s.deliveries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delivery.Status = status
	s.deliveries[id] = delivery
	return &delivery, nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(sale.Items) == 0 {
		return domain.Sale{}, fmt.Errorf("%w: sale has no items", repository.ErrInvalid)
	}
	for _, item := range sale.Items {
		product, ok := s.products[item.ProductID]
		if !ok {
			return domain.Sale{}, fmt.Errorf("%w: product %d does not exist", repository.ErrInvalid, item.ProductID)
		}
		if product.StockQuantity < item.Quantity {
			return domain.Sale{}, fmt.Errorf("%w: product %d has %d in stock, %d requested",
				repository.ErrInvalid, item.ProductID, product.StockQuantity, item.Quantity)
		}
	}
	for _, item := range sale.Items {
		product := s.products[item.ProductID]
		product.StockQuantity -= item.Quantity
		product.UpdatedAt = time.Now()
		s.products[item.ProductID] = product
	}
	sale.ID = s.nextKey()
	for i := range sale.Items {
		sale.Items[i].ID = s.nextKey()
		sale.Items[i].SaleID = sale.ID
	}
	s.sales[sale.ID] = sale
	return sale, nil
}

func (s *Store) GetSale(_ context.Context, id int64) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sale, nil
}

func (s *Store) ListSales(_ context.Context, filter repository.SaleListFilter) ([]domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Sale, 0, len(s.sales))
	for _, id := range sortedIDs(s.sales) {
		sale := s.sales[id]
		if filter.CustomerID != nil && (sale.CustomerID == nil || *sale.CustomerID != *filter.CustomerID) {
			continue
		}
		if filter.From != nil && sale.SaleDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && sale.SaleDate.After(*filter.To) {
			continue
		}
		out = append(out, sale)
	}
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *Store) PatchSale(_ context.Context, id int64, input repository.SalePatchInput) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
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
	s.sales[id] = sale
	return &sale, nil
}

func (s *Store) DeleteSale(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, item := range sale.Items {
		if product, ok := s.products[item.ProductID]; ok {
			product.StockQuantity += item.Quantity
			s.products[item.ProductID] = product
		}
	}
	delete(s.sales, id)
	return nil
}

func (s *Store) RecomputeMonthlySales(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type bucket struct {
		revenue   float64
		profit    float64
		saleIDs   map[int64]struct{}
		customers map[int64]struct{}
		products  map[int64]struct{}
	}
	buckets := make(map[string]*bucket)
	for _, sale := range s.sales {
		month := sale.SaleDate.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &bucket{
				saleIDs:   make(map[int64]struct{}),
				customers: make(map[int64]struct{}),
				products:  make(map[int64]struct{}),
			}
			buckets[month] = b
		}
		b.saleIDs[sale.ID] = struct{}{}
		if sale.CustomerID != nil {
			b.customers[*sale.CustomerID] = struct{}{}
		}
		for _, item := range sale.Items {
			b.revenue += item.ItemAmount
			cost := 0.0
			if product, ok := s.products[item.ProductID]; ok {
				cost = product.CostPrice
			}
			b.profit += float64(item.Quantity) * (item.UnitPrice - cost)
			b.products[item.ProductID] = struct{}{}
		}
	}

	months := make([]string, 0, len(buckets))
	for month := range buckets {
		months = append(months, month)
	}
	sort.Strings(months)

	s.monthly = s.monthly[:0]
	var prev *domain.MonthlySales
	for _, month := range months {
		b := buckets[month]
		m := domain.MonthlySales{
			Month:   month,
			Sales:   len(b.saleIDs),
			Revenue: b.revenue,
			Profit:  b.profit,
		}
		if m.Revenue != 0 {
			m.ProfitMargin = m.Profit / m.Revenue
		}
		if m.Sales > 0 {
			m.RevenuePerSale = m.Revenue / float64(m.Sales)
			m.ProfitPerSale = m.Profit / float64(m.Sales)
		}
		if n := len(b.customers); n > 0 {
			m.RevenuePerCustomer = m.Revenue / float64(n)
			m.ProfitPerCustomer = m.Profit / float64(n)
		}
		if n := len(b.products); n > 0 {
			m.RevenuePerProduct = m.Revenue / float64(n)
			m.ProfitPerProduct = m.Profit / float64(n)
		}
		if prev != nil {
			if prev.Revenue != 0 {
				m.RevenueGrowth = (m.Revenue - prev.Revenue) / prev.Revenue
			}
			if prev.Profit != 0 {
				m.ProfitGrowth = (m.Profit - prev.Profit) / prev.Profit
			}
		}
		s.monthly = append(s.monthly, m)
		prev = &s.monthly[len(s.monthly)-1]
	}
	return len(s.monthly), nil
}

func (s *Store) ListMonthlySales(_ context.Context, limit int) ([]domain.MonthlySales, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 200
	}
	out := make([]domain.MonthlySales, 0, len(s.monthly))
	for i := len(s.monthly) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.monthly[i])
	}
	return out, nil
}

// InactiveAccount returns the retained copy for a deactivated user id.
func (s *Store) InactiveAccount(id int64) (domain.InactiveAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.inactive[id]
	return account, ok
}
