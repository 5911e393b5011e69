package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"backend/internal/repository"
	"backend/internal/service"

	"github.com/go-chi/chi/v5"
)

type createOrderRequest struct {
	CustomerID    *int64              `json:"customer_id"`
	UserID        *int64              `json:"user_id"`
	Date          string              `json:"date"`
	PaymentMethod *string             `json:"payment_method"`
	Notes         *string             `json:"notes"`
	Items         []service.LineInput `json:"items"`
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// decodeOrderForm maps the form surface (a flat product/quantity pair) to a
// single-line order. The unit price is the product's current price; the
// client never supplies amounts.
func (h *Handler) decodeOrderForm(r *http.Request) (createOrderRequest, error) {
	var req createOrderRequest
	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("invalid form body")
	}
	req.Date = r.PostFormValue("date")
	req.PaymentMethod = formValue(r, "payment_method")
	req.Notes = formValue(r, "notes")

	productID, err := parseID(r.PostFormValue("product"))
	if err != nil {
		return req, fmt.Errorf("product is required")
	}
	quantity, err := parseOptionalInt(r.PostFormValue("quantity"), 0)
	if err != nil || quantity <= 0 {
		return req, fmt.Errorf("quantity must be a positive integer")
	}
	if customerRaw := strings.TrimSpace(r.PostFormValue("customer")); customerRaw != "" {
		customerID, err := parseID(customerRaw)
		if err != nil {
			return req, fmt.Errorf("invalid customer id")
		}
		req.CustomerID = &customerID
	}

	product, err := h.svc.GetProduct(r.Context(), productID)
	if err != nil {
		return req, err
	}
	req.Items = []service.LineInput{{
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}}
	return req, nil
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if isForm(r) {
		decoded, err := h.decodeOrderForm(r)
		if err != nil {
			writeDomainError(w, wrapInvalid(err))
			return
		}
		req = decoded
	} else if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orderDate, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == nil {
		if user, ok := CurrentUser(r.Context()); ok {
			req.UserID = &user.ID
		}
	}

	created, err := h.svc.CreateOrder(r.Context(), service.OrderCreateInput{
		CustomerID:    req.CustomerID,
		UserID:        req.UserID,
		OrderDate:     orderDate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Items:         req.Items,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAggregateFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	orders, err := h.svc.ListOrders(r.Context(), repository.OrderListFilter(filter))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": orders, "count": len(orders)})
}

type patchOrderRequest struct {
	Date          *string `json:"date"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
}

func (h *Handler) PatchOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req patchOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := repository.OrderPatchInput{
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		input.OrderDate = &date
	}

	updated, err := h.svc.PatchOrder(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

type createDeliveryRequest struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

func (h *Handler) CreateDelivery(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req createDeliveryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	delivery, err := h.svc.CreateDelivery(r.Context(), orderID, date, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, delivery)
}

func (h *Handler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deliveries, err := h.svc.ListDeliveries(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": deliveries, "count": len(deliveries)})
}

type updateDeliveryStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req updateDeliveryStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	delivery, err := h.svc.UpdateDeliveryStatus(r.Context(), id, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, delivery)
}

type createSaleRequest struct {
	CustomerID    *int64              `json:"customer_id"`
	UserID        *int64              `json:"user_id"`
	Date          string              `json:"date"`
	PaymentMethod *string             `json:"payment_method"`
	Notes         *string             `json:"notes"`
	Items         []service.LineInput `json:"items"`
}

func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saleDate, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == nil {
		if user, ok := CurrentUser(r.Context()); ok {
			req.UserID = &user.ID
		}
	}

	created, err := h.svc.CreateSale(r.Context(), service.SaleCreateInput{
		CustomerID:    req.CustomerID,
		UserID:        req.UserID,
		SaleDate:      saleDate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Items:         req.Items,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sale, err := h.svc.GetSale(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAggregateFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sales, err := h.svc.ListSales(r.Context(), repository.SaleListFilter(filter))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": sales, "count": len(sales)})
}

type patchSaleRequest struct {
	Date          *string `json:"date"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
}

func (h *Handler) PatchSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req patchSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := repository.SalePatchInput{
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		input.SaleDate = &date
	}

	updated, err := h.svc.PatchSale(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteSale(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (h *Handler) MonthlySales(w http.ResponseWriter, r *http.Request) {
	limit, err := parseOptionalInt(r.URL.Query().Get("limit"), 24)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	months, err := h.svc.ListMonthlySales(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": months, "count": len(months)})
}

func (h *Handler) RecomputeMonthlySales(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.RecomputeMonthlySales(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"months": count})
}

// aggregateFilter is the shared list-filter shape for orders and sales.
type aggregateFilter struct {
	CustomerID *int64
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

func parseAggregateFilter(r *http.Request) (aggregateFilter, error) {
	query := r.URL.Query()
	var filter aggregateFilter

	limit, err := parseOptionalInt(query.Get("limit"), 200)
	if err != nil {
		return filter, err
	}
	offset, err := parseOptionalInt(query.Get("offset"), 0)
	if err != nil {
		return filter, err
	}
	filter.Limit = limit
	filter.Offset = offset

	if raw := strings.TrimSpace(query.Get("customer_id")); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return filter, err
		}
		filter.CustomerID = &id
	}
	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	return filter, nil
}

// wrapInvalid tags plain form-parse errors as validation failures while
// letting already-classified errors pass through.
func wrapInvalid(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isDomainError(err):
		return err
	default:
		return fmt.Errorf("%w: %v", repository.ErrInvalid, err)
	}
}

func isDomainError(err error) bool {
	for _, sentinel := range []error{repository.ErrNotFound, repository.ErrConflict, repository.ErrInvalid, service.ErrInvalidCredentials} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
