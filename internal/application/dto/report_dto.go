package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportQuery query params comunes de /api/informes/*.
type ReportQuery struct {
	Month  string `query:"mes" validate:"omitempty,datetime=2006-01"`
	Format string `query:"formato" validate:"omitempty,oneof=json xlsx pdf"`
}

// ReceptionRow producto con su información de ingreso.
type ReceptionRow struct {
	ProductID      string          `json:"producto_id"`
	Name           string          `json:"nombre"`
	Category       string          `json:"categoria"`
	Location       string          `json:"ubicacion"`
	EntryKind      string          `json:"entrada"`
	EntryDate      time.Time       `json:"fecha_entrada"`
	LotCount       int             `json:"nro_lotes"`
	LotSize        int             `json:"tamanio_lote"`
	UnitsAcquired  int             `json:"unidades_adquiridas"`
	UnitCost       decimal.Decimal `json:"costo_unitario"`
	ExpirationDate *time.Time      `json:"fecha_expiracion,omitempty"`
	Supplier       string          `json:"proveedor"`
	Notes          string          `json:"observaciones,omitempty"`
}

// ReceptionReport informe de recepción.
type ReceptionReport struct {
	Month string         `json:"mes,omitempty"`
	Rows  []ReceptionRow `json:"items"`
}

// TransferMonth traslados de un mes (clave YYYY-MM).
type TransferMonth struct {
	Month string                   `json:"mes"`
	Rows  []TransferRecordResponse `json:"items"`
}

// TransfersReport traslados agrupados por mes, del más reciente al más antiguo.
type TransfersReport struct {
	Months []TransferMonth `json:"meses"`
}

// AccountingRow fila de contabilidad: asiento contable o devolución/pérdida del ledger.
type AccountingRow struct {
	ID           string          `json:"id"`
	ProductName  string          `json:"nombre_producto"`
	MovementKind string          `json:"tipo_movimiento"`
	Date         time.Time       `json:"fecha"`
	SalePrice    decimal.Decimal `json:"precio_venta"`
	Units        int             `json:"unidades_vendidas"`
	Total        decimal.Decimal `json:"total"`
	Reason       string          `json:"motivo,omitempty"`
}

// AccountingMonth filas de un mes con sus totales.
type AccountingMonth struct {
	Month       string          `json:"mes"`
	Rows        []AccountingRow `json:"items"`
	TotalIncome decimal.Decimal `json:"total_ingresos"`
	TotalLosses decimal.Decimal `json:"total_perdidas"`
}

// AccountingReport contabilidad agrupada por mes más los totales globales.
type AccountingReport struct {
	Months      []AccountingMonth `json:"meses"`
	TotalIncome decimal.Decimal   `json:"total_ingresos"`
	TotalLosses decimal.Decimal   `json:"total_perdidas"`
	NetBalance  decimal.Decimal   `json:"balance_neto"`
}

// InventoryReport productos ordenados por categoría y fecha de entrada.
type InventoryReport struct {
	Month           string            `json:"mes,omitempty"`
	AvailableMonths []string          `json:"meses_disponibles"`
	Rows            []ProductResponse `json:"items"`
	TotalValue      decimal.Decimal   `json:"valor_total"`
}

// CategorySummary conteo y valor de una categoría ABC.
type CategorySummary struct {
	Category string          `json:"categoria"`
	Count    int             `json:"cantidad"`
	Value    decimal.Decimal `json:"valor"`
}

// StockAlert alerta del tablero.
type StockAlert struct {
	ProductID   string `json:"producto_id"`
	ProductName string `json:"nombre_producto"`
	Kind        string `json:"tipo"`
	Detail      string `json:"detalle"`
}

// DashboardResponse agregados del tablero principal.
type DashboardResponse struct {
	TotalProducts       int                  `json:"total_productos"`
	TotalInventoryValue decimal.Decimal      `json:"valor_total_inventario"`
	Categories          []CategorySummary    `json:"categorias"`
	Alerts              []StockAlert         `json:"alertas"`
	Requests            RequestStatsResponse `json:"solicitudes"`
	PendingDonations    int                  `json:"donaciones_pendientes"`
	TotalUsers          int                  `json:"total_usuarios"`
}
