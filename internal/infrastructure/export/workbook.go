// Package export genera y lee planillas .xlsx con excelize.
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/application/reporting"
)

var _ reporting.WorkbookRenderer = (*ExcelRenderer)(nil)

const dateLayout = "2006-01-02"

// Nombres de hoja fijos.
const (
	SheetReception = "Recepción"
	SheetTransfers = "Traslados"
	SheetInventory = "Inventario"
	SheetSummary   = "Resumen"
)

// ExcelRenderer implementa reporting.WorkbookRenderer.
// Traslados y contabilidad llevan una hoja por mes (YYYY-MM); recepción e inventario una sola hoja.
type ExcelRenderer struct{}

// NewExcelRenderer construye el renderer.
func NewExcelRenderer() *ExcelRenderer { return &ExcelRenderer{} }

var (
	receptionHeaders = []string{
		"Nombre", "Categoría", "Ubicación", "Entrada", "Fecha Entrada", "Nro Lotes", "Tamaño Lote",
		"Unidades Adquiridas", "Costo Unitario", "Fecha Expiración", "Proveedor", "Observaciones",
	}
	transferHeaders   = []string{"Producto", "Sede Origen", "Sede Destino", "Fecha", "Motivo", "Encargado"}
	accountingHeaders = []string{"Producto", "Tipo Movimiento", "Fecha", "Precio Venta", "Unidades", "Total", "Motivo"}
	inventoryHeaders  = []string{
		"Nombre", "Categoría", "Tipo", "Ubicación", "Proveedor", "Disponible", "Umbral Mínimo", "Umbral Máximo",
		"Estado Stock", "Costo Unitario", "Valor Total", "Fecha Entrada", "Fecha Expiración",
	}
)

func (r *ExcelRenderer) Reception(rep *dto.ReceptionReport) ([]byte, error) {
	rows := make([][]any, 0, len(rep.Rows))
	for _, p := range rep.Rows {
		rows = append(rows, []any{
			p.Name, p.Category, p.Location, p.EntryKind, p.EntryDate.Format(dateLayout), p.LotCount, p.LotSize,
			p.UnitsAcquired, money(p.UnitCost), formatDate(p.ExpirationDate), p.Supplier, p.Notes,
		})
	}
	return render([]sheet{{name: SheetReception, headers: receptionHeaders, rows: rows}})
}

func (r *ExcelRenderer) Transfers(rep *dto.TransfersReport) ([]byte, error) {
	sheets := make([]sheet, 0, len(rep.Months))
	for _, m := range rep.Months {
		rows := make([][]any, 0, len(m.Rows))
		for _, t := range m.Rows {
			rows = append(rows, []any{
				t.ProductName, t.OriginSite, t.DestinationSite, t.Date.Format(dateLayout), t.Reason, t.ResponsibleParty,
			})
		}
		sheets = append(sheets, sheet{name: m.Month, headers: transferHeaders, rows: rows})
	}
	if len(sheets) == 0 {
		sheets = append(sheets, sheet{name: SheetTransfers, headers: transferHeaders})
	}
	return render(sheets)
}

// Accounting escribe una hoja por mes con su fila de totales y una hoja Resumen con los totales globales.
func (r *ExcelRenderer) Accounting(rep *dto.AccountingReport) ([]byte, error) {
	sheets := make([]sheet, 0, len(rep.Months)+1)
	summary := make([][]any, 0, len(rep.Months)+2)
	for _, m := range rep.Months {
		rows := make([][]any, 0, len(m.Rows)+3)
		for _, a := range m.Rows {
			rows = append(rows, []any{
				a.ProductName, a.MovementKind, a.Date.Format(dateLayout), money(a.SalePrice), a.Units, money(a.Total), a.Reason,
			})
		}
		rows = append(rows,
			[]any{},
			[]any{"Total ingresos", "", "", "", "", money(m.TotalIncome)},
			[]any{"Total pérdidas", "", "", "", "", money(m.TotalLosses)},
		)
		sheets = append(sheets, sheet{name: m.Month, headers: accountingHeaders, rows: rows})
		summary = append(summary, []any{m.Month, money(m.TotalIncome), money(m.TotalLosses), money(m.TotalIncome.Sub(m.TotalLosses))})
	}
	summary = append(summary, []any{}, []any{"Total", money(rep.TotalIncome), money(rep.TotalLosses), money(rep.NetBalance)})
	sheets = append(sheets, sheet{
		name:    SheetSummary,
		headers: []string{"Mes", "Ingresos", "Pérdidas", "Balance Neto"},
		rows:    summary,
	})
	return render(sheets)
}

func (r *ExcelRenderer) Inventory(rep *dto.InventoryReport) ([]byte, error) {
	rows := make([][]any, 0, len(rep.Rows)+2)
	for _, p := range rep.Rows {
		rows = append(rows, []any{
			p.Name, p.Category, p.Type, p.Location, p.Supplier, p.AvailableQuantity, p.MinThreshold, p.MaxThreshold,
			p.StockStatus, money(p.UnitCost), money(p.TotalPurchaseValue), p.EntryDate.Format(dateLayout), formatDate(p.ExpirationDate),
		})
	}
	rows = append(rows, []any{}, []any{"Valor total", "", "", "", "", "", "", "", "", "", money(rep.TotalValue)})
	return render([]sheet{{name: SheetInventory, headers: inventoryHeaders, rows: rows}})
}

type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

func render(sheets []sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo de cabecera: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("xlsx: hoja %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("xlsx: hoja %s: %w", s.name, err)
		}
		header := make([]any, len(s.headers))
		for j, h := range s.headers {
			header[j] = h
		}
		if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
			return nil, fmt.Errorf("xlsx: cabecera %s: %w", s.name, err)
		}
		last, _ := excelize.CoordinatesToCellName(len(s.headers), 1)
		if err := f.SetCellStyle(s.name, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("xlsx: estilo %s: %w", s.name, err)
		}
		for j, row := range s.rows {
			if len(row) == 0 {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(1, j+2)
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return nil, fmt.Errorf("xlsx: fila %d de %s: %w", j+2, s.name, err)
			}
		}
		_ = f.SetColWidth(s.name, "A", "A", 30)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
