package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/workflow"
)

// DonationHandler donaciones (protegido). Aprobar y rechazar pasan por la solicitud asociada.
type DonationHandler struct {
	uc   *workflow.DonationUseCase
	errs errorMapper
}

// NewDonationHandler construye el handler.
func NewDonationHandler(uc *workflow.DonationUseCase, errs errorMapper) *DonationHandler {
	return &DonationHandler{uc: uc, errs: errs}
}

// List godoc
// @Summary      Listar donaciones
// @Tags         donaciones
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "Pendiente, Aprobada o Rechazada"
// @Success      200  {object}  dto.DonationListResponse
// @Router       /api/donaciones [get]
func (h *DonationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetActor(c), c.Query("estado"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar donación
// @Description  Descuenta el stock del producto en la misma transacción.
// @Tags         donaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la donación"
// @Param        body  body  dto.ReviewRequest  false  "Notas de revisión"
// @Success      200   {object}  dto.DonationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/donaciones/{id}/aprobar [post]
func (h *DonationHandler) Approve(c *fiber.Ctx) error {
	return runReview(c, h.errs, h.uc.Approve)
}

// Reject godoc
// @Summary      Rechazar donación
// @Tags         donaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la donación"
// @Param        body  body  dto.ReviewRequest  true  "Notas de revisión"
// @Success      200   {object}  dto.DonationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/donaciones/{id}/rechazar [post]
func (h *DonationHandler) Reject(c *fiber.Ctx) error {
	return runReview(c, h.errs, h.uc.Reject)
}
