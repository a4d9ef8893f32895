package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountingEntry registro append-only de contabilidad (ventas y donaciones aprobadas).
type AccountingEntry struct {
	ID              string
	CompanyID       string
	ProductID       string
	ProductName     string
	MovementKind    string // Venta | Donación
	Date            time.Time
	SalePrice       decimal.Decimal
	UnitsSold       int
	SourceRequestID string
	CreatedAt       time.Time
}

// Total = precio × unidades.
func (e *AccountingEntry) Total() decimal.Decimal {
	return e.SalePrice.Mul(decimal.NewFromInt(int64(e.UnitsSold)))
}
