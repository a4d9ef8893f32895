package repository

import (
	"context"

	"github.com/protrack/protrack-api/internal/domain/entity"
)

// DonationRepository define el puerto de persistencia para el registro paralelo de donaciones.
type DonationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Donation, error)
	UpdateState(ctx context.Context, companyID, id string, state entity.DonationState) error
	List(ctx context.Context, companyID string, state entity.DonationState) ([]*entity.Donation, error)
}
