package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(Timeout)
	r.Use(CORS)

	r.Get("/healthz", handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", handler.Register)
		r.Post("/auth/login", handler.Login)
		r.Post("/auth/logout", handler.Logout)
		r.With(handler.RequireAuth).Get("/auth/me", handler.Me)

		r.Get("/products", handler.ListProducts)
		r.Get("/products/{id}", handler.GetProduct)
		r.Post("/products", handler.CreateProduct)
		r.Patch("/products/{id}", handler.PatchProduct)
		r.Delete("/products/{id}", handler.DeleteProduct)

		r.Get("/customers", handler.ListCustomers)
		r.Get("/customers/{id}", handler.GetCustomer)
		r.Post("/customers", handler.CreateCustomer)
		r.Patch("/customers/{id}", handler.PatchCustomer)
		r.Delete("/customers/{id}", handler.DeleteCustomer)

		r.Get("/warehouses", handler.ListWarehouses)
		r.Get("/warehouses/{id}", handler.GetWarehouse)
		r.Post("/warehouses", handler.CreateWarehouse)
		r.Patch("/warehouses/{id}", handler.PatchWarehouse)
		r.Delete("/warehouses/{id}", handler.DeleteWarehouse)
		r.Get("/warehouses/{id}/items", handler.ListWarehouseItems)
		r.Post("/warehouses/{id}/items", handler.AddWarehouseItem)
		r.Patch("/warehouses/{id}/items/{itemID}", handler.UpdateWarehouseItem)
		r.Delete("/warehouses/{id}/items/{itemID}", handler.DeleteWarehouseItem)

		r.Get("/orders", handler.ListOrders)
		r.Get("/orders/{id}", handler.GetOrder)
		r.Post("/orders", handler.CreateOrder)
		r.Patch("/orders/{id}", handler.PatchOrder)
		r.Delete("/orders/{id}", handler.DeleteOrder)
		r.Get("/orders/{id}/deliveries", handler.ListDeliveries)
		r.Post("/orders/{id}/deliveries", handler.CreateDelivery)
		r.Patch("/deliveries/{id}/status", handler.UpdateDeliveryStatus)

		r.Get("/sales", handler.ListSales)
		r.Get("/sales/{id}", handler.GetSale)
		r.Post("/sales", handler.CreateSale)
		r.Patch("/sales/{id}", handler.PatchSale)
		r.Delete("/sales/{id}", handler.DeleteSale)

		r.Get("/analytics/monthly", handler.MonthlySales)
		r.Post("/analytics/monthly/recompute", handler.RecomputeMonthlySales)

		r.Get("/reports/inventory.xlsx", handler.InventoryExcel)
		r.Get("/reports/monthly-sales.xlsx", handler.MonthlySalesExcel)
		r.Get("/reports/sales.pdf", handler.SalesReportPDF)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAuth)
			r.Get("/users", handler.ListUsers)
			r.Get("/users/{id}", handler.GetUser)
			r.Patch("/users/{id}", handler.PatchUser)
			r.Post("/users/{id}/deactivate", handler.DeactivateUser)
			r.Delete("/users/{id}", handler.DeactivateUser)
		})
	})

	return r
}
