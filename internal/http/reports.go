package http

import (
	"fmt"
	"net/http"
	"time"

	"backend/internal/report"
	"backend/internal/repository"
)

func (h *Handler) InventoryExcel(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context(), repository.ProductListFilter{Limit: 1000})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	data, err := report.InventoryWorkbook(products)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeAttachment(w, data, "inventory.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (h *Handler) MonthlySalesExcel(w http.ResponseWriter, r *http.Request) {
	months, err := h.svc.ListMonthlySales(r.Context(), 0)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	data, err := report.MonthlySalesWorkbook(months)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeAttachment(w, data, "monthly-sales.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (h *Handler) SalesReportPDF(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAggregateFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Limit = 1000

	sales, err := h.svc.ListSales(r.Context(), repository.SaleListFilter(filter))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// List results carry header rows only; the report needs the lines too.
	for i := range sales {
		full, err := h.svc.GetSale(r.Context(), sales[i].ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		sales[i] = *full
	}

	var from, to time.Time
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		to = *filter.To
	}
	data, err := report.SalesPDF(sales, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeAttachment(w, data, "sales.pdf", "application/pdf")
}

func writeAttachment(w http.ResponseWriter, data []byte, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
