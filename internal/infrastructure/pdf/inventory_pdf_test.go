package pdf_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/infrastructure/pdf"
)

func TestInventoryPDF(t *testing.T) {
	report := &dto.InventoryReport{
		Month: "2025-05",
		Rows: []dto.ProductResponse{
			{Name: "Jeringas", Category: "A", StockStatus: "bajo", UnitCost: decimal.NewFromInt(25), TotalPurchaseValue: decimal.NewFromInt(2500)},
			{Name: "Vendas", Category: "C", StockStatus: "normal", UnitCost: decimal.NewFromInt(1), TotalPurchaseValue: decimal.NewFromInt(100)},
		},
		TotalValue: decimal.NewFromInt(2600),
	}

	data, err := pdf.NewInventoryPDFGenerator().InventoryPDF("Clínica Norte", report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestInventoryPDF_Empty(t *testing.T) {
	data, err := pdf.NewInventoryPDFGenerator().InventoryPDF("", &dto.InventoryReport{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
