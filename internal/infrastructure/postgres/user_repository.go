package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, empresa_id, correo, password_hash, nombre_completo, tipo_usuario, telefono, direccion, cargo,
	salario_base, permisos, foto_perfil, estado, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role string
	var perms []string
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.FullName, &role, &u.Phone, &u.Address, &u.JobTitle,
		&u.BaseSalary, &perms, &u.ProfilePhoto, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	u.Permissions = make([]entity.Permission, 0, len(perms))
	for _, p := range perms {
		u.Permissions = append(u.Permissions, entity.Permission(p))
	}
	return &u, nil
}

func permissionStrings(perms []entity.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// Create persiste un nuevo usuario. Correo repetido => ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `INSERT INTO usuarios (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.CompanyID, u.Email, u.PasswordHash, u.FullName, string(u.Role), u.Phone, u.Address, u.JobTitle,
		u.BaseSalary, permissionStrings(u.Permissions), u.ProfilePhoto, u.Status, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por correo (cualquier empresa).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM usuarios WHERE lower(correo) = lower($1)`, email)
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return u, nil
}

// Update actualiza datos de perfil. Los permisos se cambian con UpdatePermissions.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE usuarios SET correo = $3, nombre_completo = $4, telefono = $5, direccion = $6, cargo = $7,
			salario_base = $8, foto_perfil = $9, estado = $10, updated_at = $11
		WHERE empresa_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		u.CompanyID, u.ID, u.Email, u.FullName, u.Phone, u.Address, u.JobTitle,
		u.BaseSalary, u.ProfilePhoto, u.Status, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update usuario: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePermissions reemplaza el conjunto de permisos.
func (r *UserRepo) UpdatePermissions(ctx context.Context, companyID, id string, perms []entity.Permission) error {
	if !validID(id) {
		return domain.ErrUserNotFound
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE usuarios SET permisos = $3, updated_at = now() WHERE empresa_id = $1 AND id = $2`,
		companyID, id, permissionStrings(perms),
	)
	if err != nil {
		return fmt.Errorf("update permisos: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListByCompany usuarios de la empresa ordenados por nombre.
func (r *UserRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM usuarios WHERE empresa_id = $1 ORDER BY nombre_completo, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Delete elimina el usuario de la empresa.
func (r *UserRepo) Delete(ctx context.Context, companyID, id string) error {
	if !validID(id) {
		return domain.ErrUserNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM usuarios WHERE empresa_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete usuario: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
