package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/application/workflow"
	"github.com/protrack/protrack-api/internal/domain/access"
)

// RequestHandler solicitudes y su flujo de revisión (protegido).
type RequestHandler struct {
	uc   *workflow.RequestUseCase
	errs errorMapper
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *workflow.RequestUseCase, errs errorMapper) *RequestHandler {
	return &RequestHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Crear solicitud
// @Description  Reabastecimiento, Traslado o Donación. Las de Donación crean además el registro de donación pendiente.
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "Solicitud"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/solicitudes [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de la empresa
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "Pendiente, Delegada, Aprobada o Rechazada"
// @Success      200  {object}  dto.RequestListResponse
// @Router       /api/solicitudes [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetActor(c), c.Query("estado"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// ListMine godoc
// @Summary      Solicitudes creadas por el usuario actual
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RequestListResponse
// @Router       /api/solicitudes/mias [get]
func (h *RequestHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.Context(), GetActor(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// ReviewQueue godoc
// @Summary      Solicitudes pendientes de revisión para el usuario actual
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RequestListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/solicitudes/revision [get]
func (h *RequestHandler) ReviewQueue(c *fiber.Ctx) error {
	out, err := h.uc.ReviewQueue(c.Context(), GetActor(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Conteo de solicitudes por estado
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RequestStatsResponse
// @Router       /api/solicitudes/resumen [get]
func (h *RequestHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context(), GetActor(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ReviewRequest  false  "Notas de revisión"
// @Success      200   {object}  dto.RequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/aprobar [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	return runReview(c, h.errs, h.uc.Approve)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Description  Las notas de revisión son obligatorias.
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ReviewRequest  true  "Notas de revisión"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/rechazar [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	return runReview(c, h.errs, h.uc.Reject)
}

// Delegate godoc
// @Summary      Delegar solicitud al Director General
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.ReviewRequest  false  "Notas de revisión"
// @Success      200   {object}  dto.RequestResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/delegar [post]
func (h *RequestHandler) Delegate(c *fiber.Ctx) error {
	return runReview(c, h.errs, h.uc.Delegate)
}

// CoordinateTransfer godoc
// @Summary      Registrar la coordinación de un traslado aprobado
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.CoordinateTransferRequest  true  "Sedes, fecha, motivo y encargado"
// @Success      201   {object}  dto.TransferRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/traslado [post]
func (h *RequestHandler) CoordinateTransfer(c *fiber.Ctx) error {
	var in dto.CoordinateTransferRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CoordinateTransfer(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

type reviewFunc[T any] func(ctx context.Context, actor access.Actor, id, notes string) (T, error)

// runReview body opcional {notas_revision} común a solicitudes y donaciones.
func runReview[T any](c *fiber.Ctx, errs errorMapper, fn reviewFunc[T]) error {
	var in dto.ReviewRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
	}
	out, err := fn(c.Context(), GetActor(c), c.Params("id"), in.Notes)
	if err != nil {
		return errs.write(c, err)
	}
	return c.JSON(out)
}
