package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest alta de una empresa nueva junto con su Director General.
type RegisterRequest struct {
	CompanyName string `json:"empresa" validate:"required,max=200"`
	FullName    string `json:"nombre_completo" validate:"required,max=200"`
	Email       string `json:"correo" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"usuario"`
}

// CreateUserRequest alta de Administrador o Empleado.
type CreateUserRequest struct {
	Email      string           `json:"correo" validate:"required,email"`
	Password   string           `json:"password" validate:"required"`
	FullName   string           `json:"nombre_completo" validate:"required,max=200"`
	Role       string           `json:"tipo_usuario" validate:"required,oneof=Administrador Empleado"`
	Phone      string           `json:"telefono" validate:"max=50"`
	Address    string           `json:"direccion" validate:"max=300"`
	JobTitle   string           `json:"cargo" validate:"max=100"`
	BaseSalary *decimal.Decimal `json:"salario_base"`
}

// UpdateUserRequest edición de un miembro del staff por el Director General.
type UpdateUserRequest struct {
	FullName   *string          `json:"nombre_completo" validate:"omitempty,min=1,max=200"`
	Phone      *string          `json:"telefono"`
	Address    *string          `json:"direccion"`
	JobTitle   *string          `json:"cargo"`
	BaseSalary *decimal.Decimal `json:"salario_base"`
}

// UpdatePermissionsRequest reemplaza el conjunto de permisos de un Administrador.
type UpdatePermissionsRequest struct {
	Permissions []string `json:"permisos" validate:"dive,required"`
}

// UpdateProfileRequest body de PUT /api/perfil. Cargo y salario solo aplican para el Director General.
type UpdateProfileRequest struct {
	FullName     *string          `json:"nombre_completo" validate:"omitempty,min=1,max=200"`
	Email        *string          `json:"correo" validate:"omitempty,email"`
	Phone        *string          `json:"telefono"`
	Address      *string          `json:"direccion"`
	ProfilePhoto *string          `json:"foto_perfil"`
	JobTitle     *string          `json:"cargo"`
	BaseSalary   *decimal.Decimal `json:"salario_base"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string           `json:"id"`
	CompanyID    string           `json:"empresa_id"`
	Email        string           `json:"correo"`
	FullName     string           `json:"nombre_completo"`
	Role         string           `json:"tipo_usuario"`
	Phone        string           `json:"telefono,omitempty"`
	Address      string           `json:"direccion,omitempty"`
	JobTitle     string           `json:"cargo,omitempty"`
	BaseSalary   *decimal.Decimal `json:"salario_base,omitempty"`
	Permissions  []string         `json:"permisos"`
	ProfilePhoto string           `json:"foto_perfil,omitempty"`
	Status       string           `json:"estado"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// PermissionInfo permiso con su descripción (pantalla de gestión de permisos).
type PermissionInfo struct {
	Token       string `json:"permiso"`
	Description string `json:"descripcion"`
	Granted     bool   `json:"asignado"`
}
