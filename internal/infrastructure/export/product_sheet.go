package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/protrack/protrack-api/internal/application/catalog"
	"github.com/protrack/protrack-api/internal/application/dto"
)

var _ catalog.ProductSheetParser = (*ProductSheetParser)(nil)

// Columnas reconocidas en la planilla de importación (fila 1, sin distinguir mayúsculas).
const (
	ColName         = "nombre"
	ColType         = "tipo"
	ColLocation     = "ubicacion"
	ColSupplier     = "proveedor"
	ColLotCount     = "nro_lotes"
	ColLotSize      = "tamanio_lote"
	ColAvailable    = "cantidad_disponible"
	ColMinThreshold = "umbral_minimo"
	ColMaxThreshold = "umbral_maximo"
	ColUnitCost     = "costo_unitario"
	ColExpiration   = "fecha_expiracion"
	ColEntryKind    = "entrada"
)

var expirationLayouts = []string{"2006-01-02", "02/01/2006", "01-02-06"}

// ProductSheetParser lee la primera hoja de un .xlsx con una fila de cabecera.
type ProductSheetParser struct{}

// NewProductSheetParser construye el parser.
func NewProductSheetParser() *ProductSheetParser { return &ProductSheetParser{} }

// ParseProducts devuelve una fila por cada línea no vacía. Los errores de celda quedan en ImportRow.Err.
func (p *ProductSheetParser) ParseProducts(r io.Reader) ([]catalog.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("planilla ilegible: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("planilla sin hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("planilla vacía")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols[ColName]; !ok {
		return nil, fmt.Errorf("falta la columna %q", ColName)
	}

	out := make([]catalog.ImportRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		rec := record{cols: cols, cells: cells}
		row := catalog.ImportRow{Row: i + 2}
		row.Product, row.Err = rec.product()
		out = append(out, row)
	}
	return out, nil
}

type record struct {
	cols  map[string]int
	cells []string
}

func (r record) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r record) integer(col string) (int, error) {
	v := r.get(col)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// excelize entrega números enteros como "10" pero algunas planillas los guardan como "10.0"
		d, derr := decimal.NewFromString(v)
		if derr != nil || !d.IsInteger() {
			return 0, fmt.Errorf("%s: %q no es un entero", col, v)
		}
		return int(d.IntPart()), nil
	}
	return n, nil
}

func (r record) product() (dto.CreateProductRequest, error) {
	in := dto.CreateProductRequest{
		Name:      r.get(ColName),
		Type:      r.get(ColType),
		Location:  r.get(ColLocation),
		Supplier:  r.get(ColSupplier),
		EntryKind: r.get(ColEntryKind),
	}
	ints := []struct {
		col string
		dst *int
	}{
		{ColLotCount, &in.LotCount},
		{ColLotSize, &in.LotSize},
		{ColAvailable, &in.AvailableQuantity},
		{ColMinThreshold, &in.MinThreshold},
		{ColMaxThreshold, &in.MaxThreshold},
	}
	for _, f := range ints {
		n, err := r.integer(f.col)
		if err != nil {
			return in, err
		}
		*f.dst = n
	}
	if v := r.get(ColUnitCost); v != "" {
		d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
		if err != nil {
			return in, fmt.Errorf("%s: %q no es un número", ColUnitCost, v)
		}
		in.UnitCost = d
	}
	if v := r.get(ColExpiration); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return in, fmt.Errorf("%s: %q no es una fecha", ColExpiration, v)
		}
		in.ExpirationDate = &t
	}
	return in, nil
}

func parseDate(v string) (time.Time, error) {
	var err error
	for _, layout := range expirationLayouts {
		var t time.Time
		if t, err = time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
