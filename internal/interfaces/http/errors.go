package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/application/upload"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/pkg/logger"
)

// errorMapper traduce errores de dominio a respuestas HTTP. Lo no reconocido es un 500 genérico y se registra.
type errorMapper struct {
	log *logger.Logger
}

func (m errorMapper) write(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		if m.log != nil {
			m.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		}
		msg = "error interno del servidor"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// classify devuelve el status HTTP y el código de error para err.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusBadRequest, "INSUFFICIENT_STOCK"
	case domain.IsValidation(err):
		return fiber.StatusBadRequest, "VALIDATION"
	case domain.IsNotFound(err):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, upload.ErrStorageNotConfigured):
		return fiber.StatusServiceUnavailable, "STORAGE_DISABLED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}
