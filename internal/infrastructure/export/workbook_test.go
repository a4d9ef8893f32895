package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/infrastructure/export"
)

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExcelRenderer_Reception(t *testing.T) {
	exp := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	data, err := export.NewExcelRenderer().Reception(&dto.ReceptionReport{Rows: []dto.ReceptionRow{{
		Name: "Jeringas", Category: "A", EntryKind: "Reabastecimiento",
		EntryDate: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), LotCount: 2, LotSize: 50, UnitsAcquired: 100,
		UnitCost: decimal.NewFromInt(25), ExpirationDate: &exp, Supplier: "MedSur",
	}}})
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{export.SheetReception}, f.GetSheetList())
	rows, err := f.GetRows(export.SheetReception)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Nombre", rows[0][0])
	assert.Equal(t, "Jeringas", rows[1][0])
	assert.Equal(t, "2025-03-04", rows[1][4])
	assert.Equal(t, "2025-06-01", rows[1][9])
}

func TestExcelRenderer_TransfersSheetPerMonth(t *testing.T) {
	data, err := export.NewExcelRenderer().Transfers(&dto.TransfersReport{Months: []dto.TransferMonth{
		{Month: "2025-04", Rows: []dto.TransferRecordResponse{{ProductName: "Gasas", OriginSite: "Norte", DestinationSite: "Sur"}}},
		{Month: "2025-03", Rows: []dto.TransferRecordResponse{{ProductName: "Vendas"}}},
	}})
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{"2025-04", "2025-03"}, f.GetSheetList())
	v, err := f.GetCellValue("2025-04", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Gasas", v)
}

func TestExcelRenderer_TransfersEmpty(t *testing.T) {
	data, err := export.NewExcelRenderer().Transfers(&dto.TransfersReport{})
	require.NoError(t, err)
	assert.Equal(t, []string{export.SheetTransfers}, open(t, data).GetSheetList())
}

func TestExcelRenderer_AccountingSummary(t *testing.T) {
	data, err := export.NewExcelRenderer().Accounting(&dto.AccountingReport{
		Months: []dto.AccountingMonth{{
			Month:       "2025-05",
			Rows:        []dto.AccountingRow{{ProductName: "Guantes", MovementKind: "Venta", Units: 2, Total: decimal.NewFromInt(10)}},
			TotalIncome: decimal.NewFromInt(10),
			TotalLosses: decimal.NewFromInt(6),
		}},
		TotalIncome: decimal.NewFromInt(10),
		TotalLosses: decimal.NewFromInt(6),
		NetBalance:  decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{"2025-05", export.SheetSummary}, f.GetSheetList())
	rows, err := f.GetRows(export.SheetSummary)
	require.NoError(t, err)
	last := rows[len(rows)-1]
	assert.Equal(t, []string{"Total", "10", "6", "4"}, last)
}

func TestExcelRenderer_Inventory(t *testing.T) {
	data, err := export.NewExcelRenderer().Inventory(&dto.InventoryReport{
		Rows:       []dto.ProductResponse{{Name: "Vendas", Category: "C", TotalPurchaseValue: decimal.NewFromInt(100)}},
		TotalValue: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	rows, err := open(t, data).GetRows(export.SheetInventory)
	require.NoError(t, err)
	assert.Equal(t, "Vendas", rows[1][0])
	assert.Equal(t, "Valor total", rows[len(rows)-1][0])
}
