package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/catalog"
	"github.com/protrack/protrack-api/internal/application/dto"
)

// ProductHandler catálogo de productos (protegido).
type ProductHandler struct {
	uc   *catalog.ProductUseCase
	errs errorMapper
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, errs errorMapper) *ProductHandler {
	return &ProductHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Crear producto
// @Description  La categoría ABC no se recibe: se recalcula para toda la empresa tras guardar.
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productos [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener producto por ID
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        categoria  query  string  false  "A, B o C"
// @Param        tipo       query  string  false  "Tipo"
// @Param        proveedor  query  string  false  "Proveedor"
// @Param        ubicacion  query  string  false  "Ubicación"
// @Param        q          query  string  false  "Búsqueda por nombre"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/productos [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var in dto.ProductFilterRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// FilterOptions godoc
// @Summary      Valores disponibles para los filtros del catálogo
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductFilterOptionsResponse
// @Router       /api/productos/opciones [get]
func (h *ProductHandler) FilterOptions(c *fiber.Ctx) error {
	out, err := h.uc.FilterOptions(c.Context(), GetActor(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         productos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         productos
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Import godoc
// @Summary      Importar productos desde .xlsx
// @Tags         productos
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Planilla con cabecera nombre, tipo, ubicacion, ..."
// @Success      200   {object}  dto.ImportProductsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/productos/importar [post]
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "archivo requerido en el campo 'file'"})
	}
	f, err := fh.Open()
	if err != nil {
		return h.errs.write(c, err)
	}
	defer f.Close()

	out, err := h.uc.Import(c.Context(), GetActor(c), f)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Reclassify godoc
// @Summary      Recalcular categorías ABC de la empresa
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CountResponse
// @Router       /api/productos/reclasificar [post]
func (h *ProductHandler) Reclassify(c *fiber.Ctx) error {
	n, err := h.uc.Reclassify(c.Context(), GetActor(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(dto.CountResponse{Count: n})
}
