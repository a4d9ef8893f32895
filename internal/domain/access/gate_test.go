package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/protrack/protrack-api/internal/domain/access"
	"github.com/protrack/protrack-api/internal/domain/entity"
)

func TestAllows(t *testing.T) {
	withEdit := access.NewPermissionSet(entity.PermEditProducts)
	tests := []struct {
		name     string
		role     entity.Role
		perms    access.PermissionSet
		required entity.Permission
		want     bool
	}{
		{"director sin permisos", entity.RoleDirectorGeneral, access.NewPermissionSet(), entity.PermApproveRequests, true},
		{"admin con el permiso", entity.RoleAdministrator, withEdit, entity.PermEditProducts, true},
		{"admin sin el permiso", entity.RoleAdministrator, withEdit, entity.PermApproveRequests, false},
		{"admin con conjunto nil", entity.RoleAdministrator, nil, entity.PermEditProducts, false},
		{"empleado con todos", entity.RoleEmployee, access.NewPermissionSet(entity.AllPermissions...), entity.PermEditProducts, false},
		{"rol desconocido", entity.Role("Invitado"), withEdit, entity.PermEditProducts, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.Allows(tt.role, tt.perms, tt.required))
		})
	}
}

func TestNewPermissionSet_DescartaTokensDesconocidos(t *testing.T) {
	set := access.NewPermissionSet(entity.PermCreateEmployees, entity.Permission("borrar_todo"), entity.PermApproveRequests)
	assert.Len(t, set, 2)
	assert.Equal(t, []entity.Permission{entity.PermApproveRequests, entity.PermCreateEmployees}, set.Slice())
}

func TestActorFromUser(t *testing.T) {
	u := &entity.User{ID: "u1", CompanyID: "c1", Role: entity.RoleAdministrator, Permissions: []entity.Permission{entity.PermApproveRequests}}
	a := access.ActorFromUser(u)
	assert.Equal(t, "u1", a.UserID)
	assert.Equal(t, "c1", a.CompanyID)
	assert.True(t, a.Can(entity.PermApproveRequests))
	assert.False(t, a.Can(entity.PermEditProducts))
	assert.True(t, a.IsAdministrator())
	assert.False(t, a.IsDirector())
}
