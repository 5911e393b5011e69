package report

import (
	"bytes"
	"fmt"

	"backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

var inventoryHeader = []string{"id", "name", "category", "barcode", "stock_quantity", "cost_price", "price", "stock_value"}

// InventoryWorkbook builds an Excel workbook with one row per product. The
// stock_value column is quantity times sell price.
func InventoryWorkbook(products []domain.Product) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := writeHeader(file, sheet, inventoryHeader); err != nil {
		return nil, err
	}

	for i, product := range products {
		row := i + 2
		barcode := ""
		if product.Barcode != nil {
			barcode = *product.Barcode
		}
		category := ""
		if product.Category != nil {
			category = *product.Category
		}
		values := []any{
			product.ID,
			product.Name,
			category,
			barcode,
			product.StockQuantity,
			product.CostPrice,
			product.Price,
			float64(product.StockQuantity) * product.Price,
		}
		if err := writeRow(file, sheet, row, values); err != nil {
			return nil, err
		}
	}

	return workbookBytes(file)
}

var monthlySalesHeader = []string{
	"month", "sales", "revenue", "profit", "profit_margin",
	"revenue_growth", "profit_growth",
	"revenue_per_sale", "profit_per_sale",
	"revenue_per_customer", "profit_per_customer",
	"revenue_per_product", "profit_per_product",
}

// MonthlySalesWorkbook builds an Excel workbook from the monthly aggregate
// rows, newest month first as given.
func MonthlySalesWorkbook(months []domain.MonthlySales) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := writeHeader(file, sheet, monthlySalesHeader); err != nil {
		return nil, err
	}

	for i, m := range months {
		row := i + 2
		values := []any{
			m.Month, m.Sales, m.Revenue, m.Profit, m.ProfitMargin,
			m.RevenueGrowth, m.ProfitGrowth,
			m.RevenuePerSale, m.ProfitPerSale,
			m.RevenuePerCustomer, m.ProfitPerCustomer,
			m.RevenuePerProduct, m.ProfitPerProduct,
		}
		if err := writeRow(file, sheet, row, values); err != nil {
			return nil, err
		}
	}

	return workbookBytes(file)
}

func writeHeader(file *excelize.File, sheet string, header []string) error {
	for idx, name := range header {
		cell, err := excelize.CoordinatesToCellName(idx+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(file *excelize.File, sheet string, row int, values []any) error {
	for idx, value := range values {
		cell, err := excelize.CoordinatesToCellName(idx+1, row)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func workbookBytes(file *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
