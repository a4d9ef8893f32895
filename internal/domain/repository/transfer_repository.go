package repository

import (
	"context"

	"github.com/protrack/protrack-api/internal/domain/entity"
)

// TransferRepository puerto de los registros de traslados coordinados.
type TransferRepository interface {
	Create(ctx context.Context, record *entity.TransferRecord) error
	GetByRequestID(ctx context.Context, companyID, requestID string) (*entity.TransferRecord, error)
	List(ctx context.Context, companyID string) ([]*entity.TransferRecord, error)
}
