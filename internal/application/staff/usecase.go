package staff

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/protrack/protrack-api/internal/application/auth"
	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/access"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

// StaffUseCase administración del personal, permisos y perfil propio.
type StaffUseCase struct {
	userRepo repository.UserRepository
}

// NewStaffUseCase construye el caso de uso.
func NewStaffUseCase(userRepo repository.UserRepository) *StaffUseCase {
	return &StaffUseCase{userRepo: userRepo}
}

// Create da de alta un Administrador (solo Director General) o un Empleado
// (Director General o Administrador con crear_empleados).
func (uc *StaffUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := entity.Role(in.Role)
	switch role {
	case entity.RoleAdministrator:
		if !actor.IsDirector() {
			return nil, domain.ErrForbidden
		}
	case entity.RoleEmployee:
		if !actor.Can(entity.PermCreateEmployees) {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, fmt.Errorf("%w: tipo de usuario no permitido", domain.ErrInvalidInput)
	}
	email := auth.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.FullName)
	if email == "" || name == "" {
		return nil, domain.ErrMissingRequiredField
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    actor.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Role:         role,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		JobTitle:     strings.TrimSpace(in.JobTitle),
		Permissions:  entity.DefaultPermissions(role),
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if actor.IsDirector() {
		u.BaseSalary = in.BaseSalary
	}
	if err := uc.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(u), nil
}

// List personal de la empresa sin el Director General.
func (uc *StaffUseCase) List(ctx context.Context, actor access.Actor) ([]dto.UserResponse, error) {
	if !actor.IsDirector() && !actor.IsAdministrator() {
		return nil, domain.ErrForbidden
	}
	users, err := uc.userRepo.ListByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		if u.Role == entity.RoleDirectorGeneral {
			continue
		}
		resp := auth.ToUserResponse(u)
		if !actor.IsDirector() {
			resp.BaseSalary = nil
		}
		out = append(out, *resp)
	}
	return out, nil
}

// Update edita datos de un miembro del staff (solo Director General).
func (uc *StaffUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !actor.IsDirector() {
		return nil, domain.ErrForbidden
	}
	u, err := uc.getInCompany(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		u.FullName = strings.TrimSpace(*in.FullName)
	}
	setString(&u.Phone, in.Phone)
	setString(&u.Address, in.Address)
	setString(&u.JobTitle, in.JobTitle)
	if in.BaseSalary != nil {
		u.BaseSalary = in.BaseSalary
	}
	u.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(u), nil
}

// UpdatePermissions reemplaza los permisos de un Administrador (solo Director General).
// Tokens fuera de la enumeración se rechazan.
func (uc *StaffUseCase) UpdatePermissions(ctx context.Context, actor access.Actor, id string, in dto.UpdatePermissionsRequest) (*dto.UserResponse, error) {
	if !actor.IsDirector() {
		return nil, domain.ErrForbidden
	}
	perms := make([]entity.Permission, 0, len(in.Permissions))
	for _, raw := range in.Permissions {
		p := entity.Permission(strings.TrimSpace(raw))
		if !p.Valid() {
			return nil, fmt.Errorf("%w: permiso desconocido %q", domain.ErrInvalidInput, raw)
		}
		perms = append(perms, p)
	}
	u, err := uc.getInCompany(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if u.Role != entity.RoleAdministrator {
		return nil, fmt.Errorf("%w: solo los administradores tienen permisos asignables", domain.ErrInvalidInput)
	}
	u.Permissions = access.NewPermissionSet(perms...).Slice()
	if err := uc.userRepo.UpdatePermissions(ctx, actor.CompanyID, u.ID, u.Permissions); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(u), nil
}

// Permissions catálogo de permisos con su estado para el usuario indicado.
func (uc *StaffUseCase) Permissions(ctx context.Context, actor access.Actor, id string) ([]dto.PermissionInfo, error) {
	if !actor.IsDirector() {
		return nil, domain.ErrForbidden
	}
	u, err := uc.getInCompany(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	set := access.NewPermissionSet(u.Permissions...)
	out := make([]dto.PermissionInfo, 0, len(entity.AllPermissions))
	for _, p := range entity.AllPermissions {
		out = append(out, dto.PermissionInfo{Token: string(p), Description: p.Description(), Granted: set.Has(p)})
	}
	return out, nil
}

// Delete elimina un miembro del staff (solo Director General, nunca a sí mismo).
func (uc *StaffUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if !actor.IsDirector() {
		return domain.ErrForbidden
	}
	if id == actor.UserID {
		return fmt.Errorf("%w: no puede eliminarse a sí mismo", domain.ErrInvalidInput)
	}
	if _, err := uc.getInCompany(ctx, actor, id); err != nil {
		return err
	}
	return uc.userRepo.Delete(ctx, actor.CompanyID, id)
}

// Profile perfil del usuario autenticado.
func (uc *StaffUseCase) Profile(ctx context.Context, actor access.Actor) (*dto.UserResponse, error) {
	u, err := uc.getInCompany(ctx, actor, actor.UserID)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(u), nil
}

// UpdateProfile actualiza datos propios. Cargo y salario base solo se aplican si el actor es Director General.
func (uc *StaffUseCase) UpdateProfile(ctx context.Context, actor access.Actor, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	u, err := uc.getInCompany(ctx, actor, actor.UserID)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, domain.ErrMissingRequiredField
		}
		u.FullName = name
	}
	if in.Email != nil {
		email := auth.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, domain.ErrMissingRequiredField
		}
		if email != u.Email {
			other, err := uc.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != u.ID {
				return nil, domain.ErrEmailAlreadyExists
			}
		}
		u.Email = email
	}
	setString(&u.Phone, in.Phone)
	setString(&u.Address, in.Address)
	setString(&u.ProfilePhoto, in.ProfilePhoto)
	if actor.IsDirector() {
		setString(&u.JobTitle, in.JobTitle)
		if in.BaseSalary != nil {
			u.BaseSalary = in.BaseSalary
		}
	}
	u.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(u), nil
}

func (uc *StaffUseCase) getInCompany(ctx context.Context, actor access.Actor, id string) (*entity.User, error) {
	u, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.CompanyID != actor.CompanyID {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
