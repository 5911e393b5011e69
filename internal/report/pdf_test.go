package report_test

import (
	"testing"
	"time"

	"backend/internal/domain"
	"backend/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesPDF(t *testing.T) {
	t.Parallel()

	saleDate := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		{
			ID:          7,
			SaleDate:    saleDate,
			TotalAmount: 59.94,
			Items: []domain.SaleItem{
				{SaleID: 7, ProductID: 1, Quantity: 6, UnitPrice: 9.99, ItemAmount: 59.94},
			},
		},
	}

	data, err := report.SalesPDF(sales, saleDate.AddDate(0, 0, -1), saleDate.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestSalesPDFEmpty(t *testing.T) {
	t.Parallel()

	data, err := report.SalesPDF(nil, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
