package repository

import (
	"context"

	"github.com/protrack/protrack-api/internal/domain/entity"
)

// RequestFilter criterios de listado de solicitudes.
type RequestFilter struct {
	States             []entity.RequestState
	Kind               entity.RequestKind
	RequestedBy        string
	ExcludeRequestedBy string
}

// RequestRepository define el puerto de persistencia para solicitudes.
type RequestRepository interface {
	Create(ctx context.Context, req *entity.Request) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Request, error)
	GetByIDForUpdate(ctx context.Context, companyID, id string) (*entity.Request, error)
	// Update persiste estado, revisión y vínculo de donación.
	Update(ctx context.Context, req *entity.Request) error
	List(ctx context.Context, companyID string, filter RequestFilter) ([]*entity.Request, error)
	CountByState(ctx context.Context, companyID string) (map[entity.RequestState]int, error)
}
