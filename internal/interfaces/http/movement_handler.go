package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/application/inventory"
)

// MovementHandler ledger de movimientos de stock (protegido).
type MovementHandler struct {
	uc   *inventory.RecordMovementUseCase
	errs errorMapper
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.RecordMovementUseCase, errs errorMapper) *MovementHandler {
	return &MovementHandler{uc: uc, errs: errs}
}

// Record godoc
// @Summary      Registrar movimiento
// @Description  Venta, Devolución, Traslado o Pérdida. Solo Pérdida descuenta stock.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "tipo_movimiento, producto_id, cantidad, ..."
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordMovement(c.Context(), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        tipo         query  string  false  "Tipo de movimiento"
// @Param        producto_id  query  string  false  "Producto"
// @Param        desde        query  string  false  "YYYY-MM-DD"
// @Param        hasta        query  string  false  "YYYY-MM-DD"
// @Success      200  {array}   dto.MovementResponse
// @Router       /api/movimientos [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.MovementFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
