package workflow

import (
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/access"
	"github.com/protrack/protrack-api/internal/domain/entity"
)

// checkReview decide si actor puede aprobar o rechazar req.
// Director General: Pendiente o Delegada. Administrador con permiso: solo Pendiente y nunca su propia solicitud.
func checkReview(actor access.Actor, req *entity.Request) error {
	if !actor.Can(entity.PermApproveRequests) {
		return domain.ErrForbidden
	}
	if req.State.Terminal() {
		return domain.ErrInvalidTransition
	}
	switch actor.Role {
	case entity.RoleDirectorGeneral:
		if !req.State.Actionable() {
			return domain.ErrInvalidTransition
		}
	case entity.RoleAdministrator:
		if req.State != entity.RequestPending || req.RequestedBy == actor.UserID {
			return domain.ErrInvalidTransition
		}
	default:
		return domain.ErrForbidden
	}
	return nil
}

// checkDelegate solo un Administrador con permiso delega, desde Pendiente y sobre solicitudes ajenas.
func checkDelegate(actor access.Actor, req *entity.Request) error {
	if !actor.IsAdministrator() || !actor.Can(entity.PermApproveRequests) {
		return domain.ErrForbidden
	}
	if req.State != entity.RequestPending || req.RequestedBy == actor.UserID {
		return domain.ErrInvalidTransition
	}
	return nil
}
