package repository

import (
	"context"
	"time"

	"github.com/protrack/protrack-api/internal/domain/entity"
)

// MovementFilter criterios de listado del ledger.
type MovementFilter struct {
	Kinds     []entity.MovementKind
	ProductID string
	From      *time.Time
	To        *time.Time
}

// StockMovementRepository define el puerto de persistencia para el ledger de movimientos.
// Es append-only: no expone Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, companyID string, filter MovementFilter) ([]*entity.StockMovement, error)
}
