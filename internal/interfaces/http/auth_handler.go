package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/auth"
	"github.com/protrack/protrack-api/internal/application/dto"
)

// AuthHandler maneja registro y login.
type AuthHandler struct {
	uc   *auth.AuthUseCase
	errs errorMapper
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, errs errorMapper) *AuthHandler {
	return &AuthHandler{uc: uc, errs: errs}
}

// Register godoc
// @Summary      Registrar empresa y Director General
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "empresa, nombre_completo, correo, password"
// @Success      201   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Register(c.Context(), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "correo, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
