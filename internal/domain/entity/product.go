package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de entrada con la que se adquirió el producto.
const (
	EntryInitialInventory = "Inventario Inicial"
	EntryReplenishment    = "Reabastecimiento"
)

// Estados de stock respecto a los umbrales configurados.
const (
	StockStatusLow    = "bajo"
	StockStatusNormal = "normal"
	StockStatusExcess = "exceso"
)

// Product representa un producto del catálogo de una empresa.
// Category es derivada (motor ABC) y AvailableQuantity solo baja por pérdidas y donaciones aprobadas.
type Product struct {
	ID                string
	CompanyID         string
	Name              string // único por empresa
	Type              string
	Category          Category
	Location          string
	Supplier          string
	LotCount          int
	LotSize           int
	AvailableQuantity int
	MinThreshold      int
	MaxThreshold      int
	UnitCost          decimal.Decimal
	EntryDate         time.Time
	ExpirationDate    *time.Time
	EntryKind         string // Inventario Inicial | Reabastecimiento
	Image             string
	Notes             string
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UnitsAcquired = nro_lotes × tamaño_lote.
func (p *Product) UnitsAcquired() int {
	return p.LotCount * p.LotSize
}

// TotalPurchaseValue = unidades adquiridas × costo unitario. Es el valor usado por la clasificación ABC.
func (p *Product) TotalPurchaseValue() decimal.Decimal {
	return decimal.NewFromInt(int64(p.UnitsAcquired())).Mul(p.UnitCost)
}

// StockStatus compara la cantidad disponible con los umbrales mínimo y máximo.
func (p *Product) StockStatus() string {
	if p.AvailableQuantity <= p.MinThreshold {
		return StockStatusLow
	}
	if p.MaxThreshold > 0 && p.AvailableQuantity >= p.MaxThreshold {
		return StockStatusExcess
	}
	return StockStatusNormal
}

// ExpiresWithin indica si el producto vence dentro de la ventana d contada desde now (incluye vencidos).
func (p *Product) ExpiresWithin(now time.Time, d time.Duration) bool {
	if p.ExpirationDate == nil {
		return false
	}
	return !p.ExpirationDate.After(now.Add(d))
}

// ValidEntryKind indica si k es un tipo de entrada reconocido.
func ValidEntryKind(k string) bool {
	return k == EntryInitialInventory || k == EntryReplenishment
}
