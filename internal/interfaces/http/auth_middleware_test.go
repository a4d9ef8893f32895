package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/domain/entity"
	apphttp "github.com/protrack/protrack-api/internal/interfaces/http"
	pkgjwt "github.com/protrack/protrack-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "protrack-api-test"
	testExpMin    = 60
)

// fakeUsers UserLookup en memoria.
type fakeUsers struct {
	users map[string]*entity.User
	err   error
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func usersWithRole(role entity.Role, perms ...entity.Permission) fakeUsers {
	return fakeUsers{users: map[string]*entity.User{
		testUserID: {ID: testUserID, CompanyID: testCompanyID, Role: role, Permissions: perms, Status: entity.UserStatusActive},
	}}
}

// buildTestApp aplicación mínima con AuthMiddleware + RequireRole y un handler que devuelve el actor.
func buildTestApp(users apphttp.UserLookup, allowed ...entity.Role) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, users),
		apphttp.RequireRole(allowed...),
		func(c *fiber.Ctx) error {
			actor := apphttp.GetActor(c)
			return c.JSON(fiber.Map{
				"ok":         true,
				"role":       apphttp.GetRole(c),
				"user_id":    actor.UserID,
				"company_id": apphttp.GetCompanyID(c),
				"can_edit":   actor.Can(entity.PermEditProducts),
			})
		},
	)
	return app
}

func bearer(t *testing.T, companyID string) string {
	t.Helper()
	tok, err := pkgjwt.Issue(testJWTSecret, testIssuer, pkgjwt.Identity{UserID: testUserID, CompanyID: companyID}, testExpMin*time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CargaActorDesdeDB(t *testing.T) {
	app := buildTestApp(usersWithRole(entity.RoleAdministrator, entity.PermEditProducts), entity.RoleAdministrator)
	resp := doRequest(t, app, bearer(t, testCompanyID))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Administrador", body["role"], "el rol sale de la fila del usuario, no del token")
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, true, body["can_edit"])
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	resp := doRequest(t, buildTestApp(usersWithRole(entity.RoleEmployee), entity.RoleEmployee), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	resp := doRequest(t, buildTestApp(usersWithRole(entity.RoleEmployee), entity.RoleEmployee), "Token abc")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	resp := doRequest(t, buildTestApp(usersWithRole(entity.RoleEmployee), entity.RoleEmployee), "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Issue(testJWTSecret, testIssuer, pkgjwt.Identity{UserID: testUserID, CompanyID: testCompanyID}, -time.Minute)
	require.NoError(t, err)
	resp := doRequest(t, buildTestApp(usersWithRole(entity.RoleEmployee), entity.RoleEmployee), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "TOKEN_EXPIRED")
}

func TestAuthMiddleware_UsuarioEliminado(t *testing.T) {
	app := buildTestApp(fakeUsers{users: map[string]*entity.User{}}, entity.RoleEmployee)
	resp := doRequest(t, app, bearer(t, testCompanyID))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "USER_NOT_FOUND")
}

func TestAuthMiddleware_EmpresaDistintaALaDelToken(t *testing.T) {
	app := buildTestApp(usersWithRole(entity.RoleDirectorGeneral), entity.RoleDirectorGeneral)
	resp := doRequest(t, app, bearer(t, "otra-empresa"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_CuentaInactiva(t *testing.T) {
	users := usersWithRole(entity.RoleEmployee)
	users.users[testUserID].Status = entity.UserStatusInactive
	resp := doRequest(t, buildTestApp(users, entity.RoleEmployee), bearer(t, testCompanyID))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthMiddleware_ErrorDeRepositorio(t *testing.T) {
	app := buildTestApp(fakeUsers{err: errors.New("db caída")}, entity.RoleEmployee)
	resp := doRequest(t, app, bearer(t, testCompanyID))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, bodyString(t, resp), "db caída")
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		role    entity.Role
		allowed []entity.Role
		want    int
	}{
		{"director en ruta de director", entity.RoleDirectorGeneral, []entity.Role{entity.RoleDirectorGeneral}, http.StatusOK},
		{"admin en ruta multi-rol", entity.RoleAdministrator, []entity.Role{entity.RoleDirectorGeneral, entity.RoleAdministrator}, http.StatusOK},
		{"empleado bloqueado", entity.RoleEmployee, []entity.Role{entity.RoleDirectorGeneral, entity.RoleAdministrator}, http.StatusForbidden},
		{"admin bloqueado en ruta de director", entity.RoleAdministrator, []entity.Role{entity.RoleDirectorGeneral}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, buildTestApp(usersWithRole(tt.role), tt.allowed...), bearer(t, testCompanyID))
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireRole_SinAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/x", apphttp.RequireRole(entity.RoleDirectorGeneral), func(c *fiber.Ctx) error { return c.SendString("ok") })
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
