package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role rol de un usuario dentro de su empresa (enumeración cerrada).
type Role string

const (
	RoleDirectorGeneral Role = "Director General"
	RoleAdministrator   Role = "Administrador"
	RoleEmployee        Role = "Empleado"
)

// Valid indica si r es un rol conocido.
func (r Role) Valid() bool {
	return r == RoleDirectorGeneral || r == RoleAdministrator || r == RoleEmployee
}

// Permission token de permiso explícito asignable a un Administrador.
type Permission string

const (
	PermApproveRequests Permission = "aprobar_solicitudes"
	PermEditProducts    Permission = "editar_productos"
	PermCreateEmployees Permission = "crear_empleados"
)

// AllPermissions enumeración cerrada de permisos.
var AllPermissions = []Permission{PermApproveRequests, PermEditProducts, PermCreateEmployees}

// Valid indica si p pertenece a la enumeración.
func (p Permission) Valid() bool {
	for _, known := range AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// Description texto para la pantalla de gestión de permisos.
func (p Permission) Description() string {
	switch p {
	case PermApproveRequests:
		return "Conceder o negar solicitudes de reabastecimiento de productos"
	case PermEditProducts:
		return "Editar la información de productos existentes en el inventario"
	case PermCreateEmployees:
		return "Crear usuarios empleados en el sistema"
	}
	return ""
}

// DefaultPermissions permisos con los que se crea un usuario según su rol.
func DefaultPermissions(r Role) []Permission {
	switch r {
	case RoleDirectorGeneral, RoleAdministrator:
		out := make([]Permission, len(AllPermissions))
		copy(out, AllPermissions)
		return out
	default:
		return []Permission{}
	}
}

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un miembro del staff (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt
	FullName     string
	Role         Role
	Phone        string
	Address      string
	JobTitle     string
	BaseSalary   *decimal.Decimal
	Permissions  []Permission // solo significativo para Administradores
	ProfilePhoto string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
