// Package pdf genera el informe de inventario en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa                  │  Informe + Mes + Fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Cat. | Ubicación | Disp. | Estado | ...  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: productos / valor total del inventario            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/application/reporting"
)

var _ reporting.InventoryPDFRenderer = (*InventoryPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLow     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// InventoryPDFGenerator implementa reporting.InventoryPDFRenderer.
type InventoryPDFGenerator struct {
	now func() time.Time
}

// NewInventoryPDFGenerator construye el generador.
func NewInventoryPDFGenerator() *InventoryPDFGenerator {
	return &InventoryPDFGenerator{now: time.Now}
}

// InventoryPDF genera el PDF y devuelve sus bytes.
func (g *InventoryPDFGenerator) InventoryPDF(companyName string, r *dto.InventoryReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de Inventario", true).
		WithAuthor(companyName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(companyName, r.Month, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(productRows(r.Rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(len(r.Rows), r.TotalValue.StringFixed(0)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(companyName, month string, at time.Time) core.Row {
	period := "Todos los meses"
	if month != "" {
		period = "Mes: " + month
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(companyName, "ProTrack"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(period, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("INFORME DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Cat.", 1, align.Center),
		h("Ubicación", 2, align.Left),
		h("Disp.", 1, align.Right),
		h("Estado", 1, align.Center),
		h("Costo Unit.", 2, align.Right),
		h("Valor Total", 2, align.Right),
	)
}

// productRows una fila por producto; el estado "bajo" se resalta en rojo.
func productRows(items []dto.ProductResponse) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, p := range items {
		status := props.Text{Size: 8, Align: align.Center, Top: 1}
		if p.StockStatus == "bajo" {
			status.Color = colorLow
			status.Style = fontstyle.Bold
		}
		out = append(out, row.New(7).Add(
			col.New(3).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(p.Category, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(p.Location, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprint(p.AvailableQuantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(p.StockStatus, status)),
			col.New(2).Add(text.New("$"+formatMoney(p.UnitCost.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(p.TotalPurchaseValue.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRow(count int, total string) core.Row {
	return row.New(14).Add(
		col.New(6).Add(text.New(fmt.Sprintf("Productos: %d", count), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 3,
		})),
		col.New(6).Add(text.New("VALOR TOTAL: $"+formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 3, Right: 1,
		})),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
