package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Validación específica del ledger y del flujo de solicitudes.
	ErrMissingRequiredField     = errors.New("faltan campos obligatorios")
	ErrTransferMissingLocations = errors.New("sede origen y destino son obligatorias para traslados")
	ErrReviewNotesRequired      = errors.New("las notas de revisión son obligatorias para rechazar")
	ErrWeakPassword             = errors.New("la contraseña no cumple los requisitos mínimos")

	// ErrInvalidTransition: la solicitud está en un estado terminal o el actor no puede moverla desde su estado actual.
	ErrInvalidTransition = errors.New("transición de estado no permitida")
)

// IsValidation indica si err pertenece a la familia de errores de validación (HTTP 400).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrMissingRequiredField) ||
		errors.Is(err, ErrTransferMissingLocations) ||
		errors.Is(err, ErrReviewNotesRequired) ||
		errors.Is(err, ErrWeakPassword)
}

// IsNotFound indica si err corresponde a una entidad referenciada inexistente.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
