package access

import "github.com/protrack/protrack-api/internal/domain/entity"

// Actor identidad del usuario autenticado, construida por el middleware en cada petición.
type Actor struct {
	UserID      string
	CompanyID   string
	Role        entity.Role
	Permissions PermissionSet
}

// ActorFromUser construye el actor a partir de la fila actual del usuario.
func ActorFromUser(u *entity.User) Actor {
	return Actor{
		UserID:      u.ID,
		CompanyID:   u.CompanyID,
		Role:        u.Role,
		Permissions: NewPermissionSet(u.Permissions...),
	}
}

// Can aplica Allows al actor.
func (a Actor) Can(required entity.Permission) bool {
	return Allows(a.Role, a.Permissions, required)
}

func (a Actor) IsDirector() bool { return a.Role == entity.RoleDirectorGeneral }

func (a Actor) IsAdministrator() bool { return a.Role == entity.RoleAdministrator }
