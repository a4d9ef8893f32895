package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento del ledger de stock.
type MovementKind string

const (
	MovementTransfer MovementKind = "Traslado"
	MovementReturn   MovementKind = "Devolución"
	MovementLoss     MovementKind = "Pérdida"
	MovementSale     MovementKind = "Venta"
)

// Valid indica si k pertenece al conjunto cerrado de tipos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementTransfer, MovementReturn, MovementLoss, MovementSale:
		return true
	}
	return false
}

// DecrementsStock indica si el tipo descuenta inventario de inmediato.
// Solo la pérdida sale del almacén de forma irrecuperable; el resto queda para auditoría y reportes.
func (k MovementKind) DecrementsStock() bool {
	return k == MovementLoss
}

// StockMovement es una entrada inmutable del ledger: se crea una vez y nunca se edita ni se borra.
type StockMovement struct {
	ID              string
	CompanyID       string
	Kind            MovementKind
	ProductID       string
	Quantity        int
	OriginSite      string // solo Traslado
	DestinationSite string // solo Traslado
	Reason          string
	SalePrice       *decimal.Decimal
	RecordedBy      string
	MovedAt         time.Time
	CreatedAt       time.Time
}
