package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/protrack/protrack-api/internal/domain/entity"
)

// Umbrales de valor acumulado (en %) de la clasificación ABC.
var (
	thresholdA = decimal.NewFromInt(80)
	thresholdB = decimal.NewFromInt(95)
	hundred    = decimal.NewFromInt(100)
)

// ValuedItem datos mínimos de un producto para valorarlo. Campos ausentes valen 0.
type ValuedItem struct {
	ID       string
	LotCount int
	LotSize  int
	UnitCost decimal.Decimal
}

// Value = nro_lotes × tamaño_lote × costo_unitario.
func (it ValuedItem) Value() decimal.Decimal {
	units := decimal.NewFromInt(int64(it.LotCount)).Mul(decimal.NewFromInt(int64(it.LotSize)))
	return units.Mul(it.UnitCost)
}

// Classification resultado por producto, en orden de valor descendente.
type Classification struct {
	ID            string
	Value         decimal.Decimal
	CumulativePct decimal.Decimal // participación acumulada tras sumar este producto, redondeada a 2 decimales
	Category      entity.Category
}

// Analyze valora y ordena los productos (valor descendente, empates en orden de entrada)
// y asigna la categoría según el porcentaje acumulado evaluado después de sumar cada producto:
// A si ≤ 80, B si ≤ 95, C en otro caso. Con valor total 0 todos son C.
// La comparación se hace en aritmética exacta: acumulado×100 contra total×umbral.
func Analyze(items []ValuedItem) []Classification {
	out := make([]Classification, len(items))
	total := decimal.Zero
	for i, it := range items {
		v := it.Value()
		out[i] = Classification{ID: it.ID, Value: v}
		total = total.Add(v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.GreaterThan(out[j].Value)
	})

	if total.IsZero() {
		for i := range out {
			out[i].CumulativePct = decimal.Zero
			out[i].Category = entity.CategoryC
		}
		return out
	}

	limitA := total.Mul(thresholdA)
	limitB := total.Mul(thresholdB)
	running := decimal.Zero
	for i := range out {
		running = running.Add(out[i].Value)
		scaled := running.Mul(hundred)
		switch {
		case scaled.LessThanOrEqual(limitA):
			out[i].Category = entity.CategoryA
		case scaled.LessThanOrEqual(limitB):
			out[i].Category = entity.CategoryB
		default:
			out[i].Category = entity.CategoryC
		}
		out[i].CumulativePct = scaled.Div(total).Round(2)
	}
	return out
}

// Classify devuelve la categoría asignada a cada producto por ID.
func Classify(items []ValuedItem) map[string]entity.Category {
	cls := Analyze(items)
	m := make(map[string]entity.Category, len(cls))
	for _, c := range cls {
		m[c.ID] = c.Category
	}
	return m
}

// ItemsFromProducts adapta productos del catálogo a la entrada del clasificador.
func ItemsFromProducts(products []*entity.Product) []ValuedItem {
	items := make([]ValuedItem, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		items = append(items, ValuedItem{
			ID:       p.ID,
			LotCount: p.LotCount,
			LotSize:  p.LotSize,
			UnitCost: p.UnitCost,
		})
	}
	return items
}
