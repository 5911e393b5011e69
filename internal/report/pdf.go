package report

import (
	"bytes"
	"fmt"
	"time"

	"backend/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

// SalesPDF renders a tabular sales report for the given period, one row per
// sale line.
func SalesPDF(sales []domain.Sale, from, to time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Sales Report", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	if !from.IsZero() || !to.IsZero() {
		pdf.CellFormat(0, 10, fmt.Sprintf("Date Range: %s to %s", formatDay(from), formatDay(to)), "", 1, "L", false, 0, "")
	}

	var totalItems int
	var totalValue float64
	for _, sale := range sales {
		totalValue += sale.TotalAmount
		for _, item := range sale.Items {
			totalItems += item.Quantity
		}
	}
	pdf.CellFormat(0, 10, fmt.Sprintf("Total Items Sold: %d", totalItems), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("Total Sales: %.2f", totalValue), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(30, 10, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 10, "Sale", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 10, "Product", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 10, "Quantity", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 10, "Unit Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 10, "Amount", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	for _, sale := range sales {
		for _, item := range sale.Items {
			pdf.CellFormat(30, 10, sale.SaleDate.Format("2006-01-02"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 10, fmt.Sprintf("#%d", sale.ID), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 10, fmt.Sprintf("%d", item.ProductID), "1", 0, "C", false, 0, "")
			pdf.CellFormat(25, 10, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 10, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 10, fmt.Sprintf("%.2f", item.ItemAmount), "1", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
