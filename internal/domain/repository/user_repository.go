package repository

import (
	"context"

	"github.com/protrack/protrack-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail busca en todas las empresas: el email es único globalmente.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePermissions(ctx context.Context, companyID, id string, perms []entity.Permission) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error)
	Delete(ctx context.Context, companyID, id string) error
}
