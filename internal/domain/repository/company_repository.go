package repository

import (
	"context"

	"github.com/protrack/protrack-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	List(ctx context.Context) ([]*entity.Company, error)
	SetDirector(ctx context.Context, companyID, userID string) error
}
