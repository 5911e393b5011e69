package domain

import "time"

type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	CostPrice     float64   `json:"cost_price"`
	StockQuantity int       `json:"stock_quantity"`
	Barcode       *string   `json:"barcode,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CustomerID   *int64    `json:"customer_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// InactiveAccount is the retained copy of a user written when the user is
// deactivated.
type InactiveAccount struct {
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          string    `json:"role"`
	DeactivatedAt time.Time `json:"deactivated_at"`
}

type Order struct {
	ID            int64       `json:"id"`
	CustomerID    *int64      `json:"customer_id,omitempty"`
	UserID        *int64      `json:"user_id,omitempty"`
	OrderDate     time.Time   `json:"order_date"`
	TotalAmount   float64     `json:"total_amount"`
	PaymentMethod *string     `json:"payment_method,omitempty"`
	Notes         *string     `json:"notes,omitempty"`
	Items         []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID         int64   `json:"id"`
	OrderID    int64   `json:"order_id"`
	ProductID  int64   `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	ItemAmount float64 `json:"item_amount"`
}

type Sale struct {
	ID            int64      `json:"id"`
	CustomerID    *int64     `json:"customer_id,omitempty"`
	UserID        *int64     `json:"user_id,omitempty"`
	SaleDate      time.Time  `json:"sale_date"`
	TotalAmount   float64    `json:"total_amount"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Items         []SaleItem `json:"items,omitempty"`
}

type SaleItem struct {
	ID         int64   `json:"id"`
	SaleID     int64   `json:"sale_id"`
	ProductID  int64   `json:"product_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	ItemAmount float64 `json:"item_amount"`
}

type Warehouse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
}

type WarehouseItem struct {
	ID          int64 `json:"id"`
	WarehouseID int64 `json:"warehouse_id"`
	ProductID   int64 `json:"product_id"`
	Quantity    int   `json:"quantity"`
}

const (
	DeliveryPending   = "pending"
	DeliveryShipped   = "shipped"
	DeliveryDelivered = "delivered"
)

// ValidDeliveryStatus reports whether status is one of the delivery status
// constants.
func ValidDeliveryStatus(status string) bool {
	switch status {
	case DeliveryPending, DeliveryShipped, DeliveryDelivered:
		return true
	}
	return false
}

type Delivery struct {
	ID           int64     `json:"id"`
	OrderID      int64     `json:"order_id"`
	DeliveryDate time.Time `json:"delivery_date"`
	Status       string    `json:"status"`
}

// MonthlySales is a derived aggregate row keyed by calendar month
// ("YYYY-MM"). Growth columns compare against the previous month; the
// per-sale/per-customer/per-product ratios are zero when the divisor is
// zero.
type MonthlySales struct {
	Month              string  `json:"month"`
	Sales              int     `json:"sales"`
	Profit             float64 `json:"profit"`
	Revenue            float64 `json:"revenue"`
	ProfitMargin       float64 `json:"profit_margin"`
	RevenueGrowth      float64 `json:"revenue_growth"`
	ProfitGrowth       float64 `json:"profit_growth"`
	RevenuePerSale     float64 `json:"revenue_per_sale"`
	ProfitPerSale      float64 `json:"profit_per_sale"`
	RevenuePerCustomer float64 `json:"revenue_per_customer"`
	ProfitPerCustomer  float64 `json:"profit_per_customer"`
	RevenuePerProduct  float64 `json:"revenue_per_product"`
	ProfitPerProduct   float64 `json:"profit_per_product"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
