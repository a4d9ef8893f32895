package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/application/staff"
)

// UserHandler gestión del staff y perfil propio (protegido).
type UserHandler struct {
	uc   *staff.StaffUseCase
	errs errorMapper
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *staff.StaffUseCase, errs errorMapper) *UserHandler {
	return &UserHandler{uc: uc, errs: errs}
}

// Profile godoc
// @Summary      Perfil del usuario actual
// @Tags         perfil
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Router       /api/perfil [get]
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	out, err := h.uc.Profile(c.Context(), GetActor(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil propio
// @Description  cargo y salario_base solo se aplican al Director General.
// @Tags         perfil
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/perfil [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateProfile(c.Context(), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar staff de la empresa
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/usuarios [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetActor(c))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear Administrador o Empleado
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/usuarios [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar usuario (Director General)
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Permissions godoc
// @Summary      Permisos de un Administrador con su descripción
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {array}   dto.PermissionInfo
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id}/permisos [get]
func (h *UserHandler) Permissions(c *fiber.Ctx) error {
	out, err := h.uc.Permissions(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// UpdatePermissions godoc
// @Summary      Reemplazar permisos de un Administrador
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del usuario"
// @Param        body  body  dto.UpdatePermissionsRequest  true  "aprobar_solicitudes, editar_productos, crear_empleados"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id}/permisos [put]
func (h *UserHandler) UpdatePermissions(c *fiber.Ctx) error {
	var in dto.UpdatePermissionsRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdatePermissions(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario
// @Tags         usuarios
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
