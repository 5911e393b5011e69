package report_test

import (
	"bytes"
	"testing"
	"time"

	"backend/internal/domain"
	"backend/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func strPtr(v string) *string { return &v }

func TestInventoryWorkbook(t *testing.T) {
	t.Parallel()

	products := []domain.Product{
		{
			ID:            1,
			Name:          "Keyboard",
			Price:         50,
			CostPrice:     30,
			StockQuantity: 4,
			Barcode:       strPtr("KB-1"),
			Category:      strPtr("peripherals"),
			CreatedAt:     time.Now(),
		},
		{ID: 2, Name: "Mouse", Price: 20, StockQuantity: 10},
	}

	data, err := report.InventoryWorkbook(products)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	sheet := file.GetSheetName(0)
	rows, err := file.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "name", rows[0][1])
	assert.Equal(t, "Keyboard", rows[1][1])
	assert.Equal(t, "KB-1", rows[1][3])
	// stock_value = 4 * 50
	assert.Equal(t, "200", rows[1][7])
	assert.Equal(t, "Mouse", rows[2][1])
}

func TestMonthlySalesWorkbook(t *testing.T) {
	t.Parallel()

	months := []domain.MonthlySales{
		{Month: "2026-02", Sales: 3, Revenue: 120, Profit: 40, ProfitMargin: 0.3333},
		{Month: "2026-01", Sales: 1, Revenue: 60, Profit: 20},
	}

	data, err := report.MonthlySalesWorkbook(months)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer file.Close()

	sheet := file.GetSheetName(0)
	rows, err := file.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "month", rows[0][0])
	assert.Equal(t, "2026-02", rows[1][0])
	assert.Equal(t, "120", rows[1][2])
	assert.Equal(t, "2026-01", rows[2][0])
}

func TestEmptyWorkbooksStillRender(t *testing.T) {
	t.Parallel()

	data, err := report.InventoryWorkbook(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	data, err = report.MonthlySalesWorkbook(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
