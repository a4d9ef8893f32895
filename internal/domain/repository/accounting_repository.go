package repository

import (
	"context"

	"github.com/protrack/protrack-api/internal/domain/entity"
)

// AccountingRepository puerto del registro contable (append-only).
type AccountingRepository interface {
	Create(ctx context.Context, entry *entity.AccountingEntry) error
	List(ctx context.Context, companyID string) ([]*entity.AccountingEntry, error)
}
