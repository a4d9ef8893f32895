package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/domain/access"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/pkg/jwt"
)

// Locals keys cargadas por AuthMiddleware.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
	LocalActor     = "actor"
)

// UserLookup lectura del usuario actual; los permisos vigentes salen de la DB, no del token.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token JWT, carga el usuario y deja el access.Actor en c.Locals.
func AuthMiddleware(jwtSecret string, users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "token vacío")
		}
		id, err := jwt.Verify(jwtSecret, tokenString)
		if errors.Is(err, jwt.ErrTokenExpired) {
			return unauthorized(c, "TOKEN_EXPIRED", "la sesión expiró")
		}
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", "token inválido")
		}

		user, err := users.GetByID(c.UserContext(), id.UserID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
		}
		if user == nil || user.CompanyID != id.CompanyID {
			return unauthorized(c, "USER_NOT_FOUND", "el usuario del token no existe")
		}
		if user.Status == entity.UserStatusInactive {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva"})
		}

		actor := access.ActorFromUser(user)
		c.Locals(LocalUserID, actor.UserID)
		c.Locals(LocalCompanyID, actor.CompanyID)
		c.Locals(LocalRole, string(actor.Role))
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// RequireRole corta con 403 si el rol del actor no está entre los permitidos. Va después de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := c.Locals(LocalActor).(access.Actor)
		if !ok {
			return unauthorized(c, "UNAUTHORIZED", "sesión requerida")
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
	}
}

// GetActor devuelve el actor autenticado (zero value si no pasó por AuthMiddleware).
func GetActor(c *fiber.Ctx) access.Actor {
	actor, _ := c.Locals(LocalActor).(access.Actor)
	return actor
}

// GetUserID devuelve el UserID del contexto.
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve el CompanyID del contexto.
func GetCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCompanyID).(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
