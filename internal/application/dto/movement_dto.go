package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body de POST /api/movimientos. Los obligatorios se validan en el caso de uso
// para responder con el mensaje exacto del ledger.
type RecordMovementRequest struct {
	Kind            string           `json:"tipo_movimiento"`
	ProductID       string           `json:"producto_id"`
	Quantity        *int             `json:"cantidad"`
	OriginSite      string           `json:"sede_origen,omitempty"`
	DestinationSite string           `json:"sede_destino,omitempty"`
	Reason          string           `json:"motivo,omitempty"`
	SalePrice       *decimal.Decimal `json:"precio_venta,omitempty"`
	RecordedBy      string           `json:"registrado_por"`
}

// MovementFilterRequest query params de GET /api/movimientos.
type MovementFilterRequest struct {
	Kind      string `query:"tipo"`
	ProductID string `query:"producto_id"`
	From      string `query:"desde"` // YYYY-MM-DD
	To        string `query:"hasta"` // YYYY-MM-DD
}

// MovementResponse movimiento registrado.
type MovementResponse struct {
	ID              string           `json:"id"`
	Kind            string           `json:"tipo_movimiento"`
	ProductID       string           `json:"producto_id"`
	Quantity        int              `json:"cantidad"`
	OriginSite      string           `json:"sede_origen,omitempty"`
	DestinationSite string           `json:"sede_destino,omitempty"`
	Reason          string           `json:"motivo,omitempty"`
	SalePrice       *decimal.Decimal `json:"precio_venta,omitempty"`
	RecordedBy      string           `json:"registrado_por"`
	MovedAt         time.Time        `json:"fecha_movimiento"`
}
