package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/application/reporting"
	"github.com/protrack/protrack-api/internal/domain/access"
)

// ReportHandler informes de solo lectura y tablero (protegido).
type ReportHandler struct {
	uc   *reporting.ReportUseCase
	errs errorMapper
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.ReportUseCase, errs errorMapper) *ReportHandler {
	return &ReportHandler{uc: uc, errs: errs}
}

// Reception godoc
// @Summary      Informe de recepción
// @Tags         informes
// @Security     Bearer
// @Produce      json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        mes      query  string  false  "YYYY-MM"
// @Param        formato  query  string  false  "json (defecto) o xlsx"
// @Success      200  {object}  dto.ReceptionReport
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/informes/recepcion [get]
func (h *ReportHandler) Reception(c *fiber.Ctx) error {
	return serveReport(c, h, reporting.ReportReception, h.uc.Reception)
}

// Transfers godoc
// @Summary      Informe de traslados agrupado por mes
// @Tags         informes
// @Security     Bearer
// @Produce      json
// @Param        mes      query  string  false  "YYYY-MM"
// @Param        formato  query  string  false  "json (defecto) o xlsx"
// @Success      200  {object}  dto.TransfersReport
// @Router       /api/informes/traslados [get]
func (h *ReportHandler) Transfers(c *fiber.Ctx) error {
	return serveReport(c, h, reporting.ReportTransfers, h.uc.Transfers)
}

// Accounting godoc
// @Summary      Informe de contabilidad con totales por mes
// @Tags         informes
// @Security     Bearer
// @Produce      json
// @Param        mes      query  string  false  "YYYY-MM"
// @Param        formato  query  string  false  "json (defecto) o xlsx"
// @Success      200  {object}  dto.AccountingReport
// @Router       /api/informes/contabilidad [get]
func (h *ReportHandler) Accounting(c *fiber.Ctx) error {
	return serveReport(c, h, reporting.ReportAccounting, h.uc.Accounting)
}

// Inventory godoc
// @Summary      Informe de inventario ordenado por categoría y fecha de entrada
// @Tags         informes
// @Security     Bearer
// @Produce      json
// @Produce      application/pdf
// @Param        mes      query  string  false  "YYYY-MM"
// @Param        formato  query  string  false  "json (defecto), xlsx o pdf"
// @Success      200  {object}  dto.InventoryReport
// @Router       /api/informes/inventario [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	return serveReport(c, h, reporting.ReportInventory, h.uc.Inventory)
}

// Dashboard godoc
// @Summary      Tablero principal
// @Tags         informes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/informes/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context(), GetActor(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

type reportFunc[T any] func(ctx context.Context, actor access.Actor, month string) (T, error)

// serveReport responde JSON o, con ?formato=xlsx|pdf, el archivo como adjunto.
func serveReport[T any](c *fiber.Ctx, h *ReportHandler, report string, fn reportFunc[T]) error {
	var q dto.ReportQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	if q.Format == "" || q.Format == reporting.FormatJSON {
		out, err := fn(c.Context(), GetActor(c), q.Month)
		if err != nil {
			return h.errs.write(c, err)
		}
		return c.JSON(out)
	}
	file, err := h.uc.Export(c.Context(), GetActor(c), report, q)
	if err != nil {
		return h.errs.write(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	return c.Send(file.Data)
}
