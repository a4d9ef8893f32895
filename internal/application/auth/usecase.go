package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
	"github.com/protrack/protrack-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// RegistrationTxRunner crea empresa y director en una misma transacción.
type RegistrationTxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
	) error) error
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	txRunner RegistrationTxRunner
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, txRunner RegistrationTxRunner, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, txRunner: txRunner, jwtCfg: jwtCfg}
}

// Register da de alta una empresa nueva y su Director General. Devuelve ErrEmailAlreadyExists si el correo ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.CompanyName) == "" || strings.TrimSpace(in.FullName) == "" {
		return nil, domain.ErrMissingRequiredField
	}
	if err := ValidatePassword(in.Password); err != nil {
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
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.CompanyName),
		Status:    entity.CompanyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         entity.RoleDirectorGeneral,
		Permissions:  entity.DefaultPermissions(entity.RoleDirectorGeneral),
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.RunRegistration(ctx, func(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) error {
		if err := companyRepo.Create(ctx, company); err != nil {
			return err
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		return companyRepo.SetDirector(ctx, company.ID, user.ID)
	})
	if err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// Login verifica correo/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Issue(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, jwt.Identity{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      string(user.Role),
	}, time.Duration(uc.jwtCfg.ExpMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// NormalizeEmail recorta y pasa a minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ToUserResponse mapea la entidad a la salida HTTP (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	perms := make([]string, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		perms = append(perms, string(p))
	}
	return &dto.UserResponse{
		ID:           u.ID,
		CompanyID:    u.CompanyID,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         string(u.Role),
		Phone:        u.Phone,
		Address:      u.Address,
		JobTitle:     u.JobTitle,
		BaseSalary:   u.BaseSalary,
		Permissions:  perms,
		ProfilePhoto: u.ProfilePhoto,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
