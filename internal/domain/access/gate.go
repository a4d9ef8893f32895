// Package access contiene la compuerta de permisos y la identidad del actor de cada petición.
package access

import (
	"github.com/protrack/protrack-api/internal/domain/entity"
)

// PermissionSet conjunto de permisos explícitos de un usuario.
type PermissionSet map[entity.Permission]struct{}

// NewPermissionSet construye el conjunto descartando tokens fuera de la enumeración.
func NewPermissionSet(perms ...entity.Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		if p.Valid() {
			set[p] = struct{}{}
		}
	}
	return set
}

// Has indica si p pertenece al conjunto.
func (s PermissionSet) Has(p entity.Permission) bool {
	_, ok := s[p]
	return ok
}

// Slice devuelve los permisos en el orden de la enumeración.
func (s PermissionSet) Slice() []entity.Permission {
	out := make([]entity.Permission, 0, len(s))
	for _, p := range entity.AllPermissions {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Allows decide si un usuario con rol y permisos dados puede ejercer required.
// Director General siempre; Administrador solo si lo tiene; Empleado nunca.
func Allows(role entity.Role, perms PermissionSet, required entity.Permission) bool {
	switch role {
	case entity.RoleDirectorGeneral:
		return true
	case entity.RoleAdministrator:
		return perms.Has(required)
	default:
		return false
	}
}
