package repository

import (
	"context"

	"github.com/protrack/protrack-api/internal/domain/entity"
)

// ProductFilter criterios de listado del catálogo. Campos vacíos no filtran.
type ProductFilter struct {
	Category entity.Category
	Type     string
	Supplier string
	Location string
	Search   string // coincidencia parcial sobre nombre, sin distinguir mayúsculas
}

// ProductFilterOptions valores distintos disponibles para los filtros del catálogo.
type ProductFilterOptions struct {
	Types     []string
	Suppliers []string
	Locations []string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las consultas van acotadas por empresa; un producto inexistente se devuelve como (nil, nil).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila (SELECT ... FOR UPDATE); usar dentro de una transacción.
	GetByIDForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error)
	GetByName(ctx context.Context, companyID, name string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, companyID, id string) error
	List(ctx context.Context, companyID string, filter ProductFilter) ([]*entity.Product, error)
	FilterOptions(ctx context.Context, companyID string) (*ProductFilterOptions, error)
	// DecrementAvailable resta qty de cantidad_disponible; ErrInsufficientStock si quedaría negativa.
	DecrementAvailable(ctx context.Context, companyID, id string, qty int) error
	// UpdateCategories persiste las categorías ABC calculadas (id → categoría).
	UpdateCategories(ctx context.Context, companyID string, categories map[string]entity.Category) error
}
