package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. La categoría no se acepta: la calcula el motor ABC.
type CreateProductRequest struct {
	Name              string          `json:"nombre" validate:"required,max=200"`
	Type              string          `json:"tipo" validate:"max=100"`
	Location          string          `json:"ubicacion" validate:"max=200"`
	Supplier          string          `json:"proveedor" validate:"max=200"`
	LotCount          int             `json:"nro_lotes" validate:"min=0"`
	LotSize           int             `json:"tamanio_lote" validate:"min=0"`
	AvailableQuantity int             `json:"cantidad_disponible" validate:"min=0"`
	MinThreshold      int             `json:"umbral_minimo" validate:"min=0"`
	MaxThreshold      int             `json:"umbral_maximo" validate:"min=0"`
	UnitCost          decimal.Decimal `json:"costo_unitario" validate:"min=0"`
	EntryDate         *time.Time      `json:"fecha_entrada"`
	ExpirationDate    *time.Time      `json:"fecha_expiracion"`
	EntryKind         string          `json:"entrada" validate:"omitempty,oneof='Inventario Inicial' Reabastecimiento"`
	Image             string          `json:"imagen"`
	Notes             string          `json:"descripcion"`
}

// UpdateProductRequest actualización parcial; solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Name              *string          `json:"nombre" validate:"omitempty,min=1,max=200"`
	Type              *string          `json:"tipo"`
	Location          *string          `json:"ubicacion"`
	Supplier          *string          `json:"proveedor"`
	LotCount          *int             `json:"nro_lotes" validate:"omitempty,min=0"`
	LotSize           *int             `json:"tamanio_lote" validate:"omitempty,min=0"`
	AvailableQuantity *int             `json:"cantidad_disponible" validate:"omitempty,min=0"`
	MinThreshold      *int             `json:"umbral_minimo" validate:"omitempty,min=0"`
	MaxThreshold      *int             `json:"umbral_maximo" validate:"omitempty,min=0"`
	UnitCost          *decimal.Decimal `json:"costo_unitario"`
	ExpirationDate    *time.Time       `json:"fecha_expiracion"`
	ClearExpiration   bool             `json:"sin_expiracion"`
	EntryKind         *string          `json:"entrada" validate:"omitempty,oneof='Inventario Inicial' Reabastecimiento"`
	Image             *string          `json:"imagen"`
	Notes             *string          `json:"descripcion"`
}

// ProductFilterRequest query params de GET /api/productos.
type ProductFilterRequest struct {
	Category string `query:"categoria" validate:"omitempty,oneof=A B C"`
	Type     string `query:"tipo"`
	Supplier string `query:"proveedor"`
	Location string `query:"ubicacion"`
	Search   string `query:"q"`
}

// ProductResponse salida de un producto con sus valores derivados.
type ProductResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"nombre"`
	Type               string          `json:"tipo"`
	Category           string          `json:"categoria"`
	Location           string          `json:"ubicacion"`
	Supplier           string          `json:"proveedor"`
	LotCount           int             `json:"nro_lotes"`
	LotSize            int             `json:"tamanio_lote"`
	UnitsAcquired      int             `json:"unidades_adquiridas"`
	AvailableQuantity  int             `json:"cantidad_disponible"`
	MinThreshold       int             `json:"umbral_minimo"`
	MaxThreshold       int             `json:"umbral_maximo"`
	UnitCost           decimal.Decimal `json:"costo_unitario"`
	TotalPurchaseValue decimal.Decimal `json:"valor_total"`
	StockStatus        string          `json:"estado_stock"`
	EntryDate          time.Time       `json:"fecha_entrada"`
	ExpirationDate     *time.Time      `json:"fecha_expiracion,omitempty"`
	EntryKind          string          `json:"entrada"`
	Image              string          `json:"imagen,omitempty"`
	Notes              string          `json:"descripcion,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ProductListResponse listado del catálogo.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// ProductFilterOptionsResponse valores distintos para los filtros del catálogo.
type ProductFilterOptionsResponse struct {
	Types      []string `json:"tipos"`
	Suppliers  []string `json:"proveedores"`
	Locations  []string `json:"ubicaciones"`
	Categories []string `json:"categorias"`
}

// ImportRowError fila rechazada de una importación masiva.
type ImportRowError struct {
	Row     int    `json:"fila"`
	Message string `json:"mensaje"`
}

// ImportProductsResponse resultado de POST /api/productos/importar.
type ImportProductsResponse struct {
	Imported int              `json:"importados"`
	Errors   []ImportRowError `json:"errores"`
}
