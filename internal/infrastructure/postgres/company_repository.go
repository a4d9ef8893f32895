package postgres

import (
	"context"
	"fmt"

	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL (pool o tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, nombre, COALESCE(director_general_id::text, ''), estado, created_at, updated_at`

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO empresas (id, nombre, director_general_id, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, nullable(c.DirectorGeneralID), c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert empresa: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	if !validID(id) {
		return nil, nil
	}
	var c entity.Company
	err := r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM empresas WHERE id = $1`, id).Scan(
		&c.ID, &c.Name, &c.DirectorGeneralID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa: %w", err)
	}
	return &c, nil
}

// List todas las empresas (usado por la reclasificación global).
func (r *CompanyRepo) List(ctx context.Context) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM empresas ORDER BY nombre, id`)
	if err != nil {
		return nil, fmt.Errorf("list empresas: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.DirectorGeneralID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan empresa: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// SetDirector enlaza la empresa con su Director General.
func (r *CompanyRepo) SetDirector(ctx context.Context, companyID, userID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE empresas SET director_general_id = $2, updated_at = now() WHERE id = $1`, companyID, userID)
	if err != nil {
		return fmt.Errorf("asignar director: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
