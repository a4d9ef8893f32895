package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/upload"
)

// UploadHandler subida de imágenes de producto (protegido).
type UploadHandler struct {
	uc   *upload.UploadUseCase
	errs errorMapper
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *upload.UploadUseCase, errs errorMapper) *UploadHandler {
	return &UploadHandler{uc: uc, errs: errs}
}

// Upload godoc
// @Summary      Subir archivo
// @Tags         upload
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo"
// @Success      200   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		// sin archivo: el caso de uso responde con el error de campo obligatorio
		_, err = h.uc.Upload(c.Context(), nil)
		return h.errs.write(c, err)
	}
	f, err := fh.Open()
	if err != nil {
		return h.errs.write(c, err)
	}
	defer f.Close()

	out, err := h.uc.Upload(c.Context(), &upload.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
