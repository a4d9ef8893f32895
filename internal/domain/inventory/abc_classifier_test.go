package inventory_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/inventory"
)

func item(id string, lots, size int, cost int64) inventory.ValuedItem {
	return inventory.ValuedItem{ID: id, LotCount: lots, LotSize: size, UnitCost: decimal.NewFromInt(cost)}
}

// Producto único: 100% acumulado > 95% → C, aunque sea el único ítem del catálogo.
func TestClassify_ProductoUnicoEsC(t *testing.T) {
	got := inventory.Classify([]inventory.ValuedItem{item("p", 2, 100, 5)})
	assert.Equal(t, entity.CategoryC, got["p"])
}

func TestClassify_ValorTotalCeroTodosC(t *testing.T) {
	got := inventory.Classify([]inventory.ValuedItem{
		item("a", 0, 10, 5),
		item("b", 3, 0, 5),
		{ID: "c"}, // campos ausentes
	})
	require.Len(t, got, 3)
	for id, cat := range got {
		assert.Equal(t, entity.CategoryC, cat, "producto %s", id)
	}
}

func TestClassify_CatalogoVacio(t *testing.T) {
	assert.Empty(t, inventory.Classify(nil))
}

func TestAnalyze_FronterasExactas(t *testing.T) {
	// Valores 80, 15, 5 sobre total 100: acumulados 80, 95, 100.
	cls := inventory.Analyze([]inventory.ValuedItem{
		item("c", 1, 1, 5),
		item("a", 1, 1, 80),
		item("b", 1, 1, 15),
	})
	require.Len(t, cls, 3)
	assert.Equal(t, "a", cls[0].ID)
	assert.Equal(t, entity.CategoryA, cls[0].Category, "80% exacto es A")
	assert.Equal(t, "b", cls[1].ID)
	assert.Equal(t, entity.CategoryB, cls[1].Category, "95% exacto es B")
	assert.Equal(t, "c", cls[2].ID)
	assert.Equal(t, entity.CategoryC, cls[2].Category)
	assert.True(t, cls[2].CumulativePct.Equal(decimal.NewFromInt(100)))
}

func TestAnalyze_EmpatesConservanOrdenDeEntrada(t *testing.T) {
	cls := inventory.Analyze([]inventory.ValuedItem{
		item("x", 1, 10, 1),
		item("y", 1, 10, 1),
		item("z", 1, 10, 1),
	})
	ids := []string{cls[0].ID, cls[1].ID, cls[2].ID}
	assert.Equal(t, []string{"x", "y", "z"}, ids)
}

func TestAnalyze_CostoDecimalSinRedondeo(t *testing.T) {
	// 0.1 × 3 vs 0.3: la aritmética decimal evita errores binarios.
	cls := inventory.Analyze([]inventory.ValuedItem{
		{ID: "a", LotCount: 1, LotSize: 8, UnitCost: decimal.RequireFromString("0.1")},
		{ID: "b", LotCount: 1, LotSize: 2, UnitCost: decimal.RequireFromString("0.1")},
	})
	assert.Equal(t, entity.CategoryA, cls[0].Category)
	assert.Equal(t, entity.CategoryC, cls[1].Category)
}

// Propiedad: la participación acumulada de A no supera 80% y la de A∪B no supera 95%,
// y las categorías son monótonas en el orden de valor descendente.
func TestAnalyze_PropiedadesDeParticion(t *testing.T) {
	for n := 1; n <= 40; n++ {
		items := make([]inventory.ValuedItem, n)
		for i := range items {
			items[i] = item(fmt.Sprintf("p%02d", i), (i*7)%5+1, (i*13)%17, int64((i*31)%23))
		}
		cls := inventory.Analyze(items)

		total, sumA, sumAB := decimal.Zero, decimal.Zero, decimal.Zero
		for _, c := range cls {
			total = total.Add(c.Value)
			if c.Category == entity.CategoryA {
				sumA = sumA.Add(c.Value)
			}
			if c.Category == entity.CategoryA || c.Category == entity.CategoryB {
				sumAB = sumAB.Add(c.Value)
			}
		}
		if total.IsZero() {
			continue
		}
		assert.True(t, sumA.Mul(decimal.NewFromInt(100)).LessThanOrEqual(total.Mul(decimal.NewFromInt(80))), "n=%d", n)
		assert.True(t, sumAB.Mul(decimal.NewFromInt(100)).LessThanOrEqual(total.Mul(decimal.NewFromInt(95))), "n=%d", n)
		for i := 1; i < len(cls); i++ {
			assert.LessOrEqual(t, cls[i-1].Category.Rank(), cls[i].Category.Rank(), "n=%d i=%d", n, i)
		}
	}
}

func TestClassify_Idempotente(t *testing.T) {
	items := []inventory.ValuedItem{
		item("a", 5, 10, 20), item("b", 1, 10, 3), item("c", 2, 50, 1), item("d", 1, 1, 1),
	}
	first := inventory.Classify(items)
	second := inventory.Classify(items)
	assert.Equal(t, first, second)
}

func TestItemsFromProducts(t *testing.T) {
	p := &entity.Product{ID: "p1", LotCount: 2, LotSize: 100, UnitCost: decimal.NewFromInt(5)}
	items := inventory.ItemsFromProducts([]*entity.Product{p, nil})
	require.Len(t, items, 1)
	assert.True(t, items[0].Value().Equal(decimal.NewFromInt(1000)))
	assert.True(t, p.TotalPurchaseValue().Equal(items[0].Value()))
}
