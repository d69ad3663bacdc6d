package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	apphttp "github.com/jhoicas/stockpilot-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stockpilot-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testEmail     = "caja@stockpilot.test"
	testIssuer    = "stockpilot-test"
	testExpMin    = 60
)

func accessToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

// guarded monta GET /recurso detrás de AuthMiddleware y los middlewares dados.
// El handler responde con lo que dejaron los middlewares en Locals.
func guarded(mw ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{apphttp.AuthMiddleware(testJWTSecret)}, mw...)
	handlers = append(handlers, echoLocals)
	app.Get("/recurso", handlers...)
	return app
}

func echoLocals(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user_id": apphttp.GetUserID(c),
		"email":   apphttp.GetEmail(c),
		"role":    apphttp.GetRole(c),
	})
}

func get(t *testing.T, app *fiber.App, authorization string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// AuthMiddleware

func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	// el esquema se acepta sin importar mayúsculas
	resp := get(t, guarded(), "bearer "+accessToken(t, entity.RoleManager))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testEmail, body["email"])
	assert.Equal(t, entity.RoleManager, body["role"])
}

func TestAuthMiddleware_RechazaCabecerasInvalidas(t *testing.T) {
	otherSecret, err := pkgjwt.Generate("otro-secreto", testUserID, testEmail, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin cabecera", "", "MISSING_TOKEN"},
		{"esquema basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"firmado con otra clave", "Bearer " + otherSecret, "INVALID_TOKEN"},
	}
	app := guarded()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, app, tc.header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Code)
		})
	}
}

func TestAuthMiddleware_RechazaRefreshToken(t *testing.T) {
	refresh, err := pkgjwt.GenerateRefresh(testJWTSecret, testUserID, testEmail, entity.RoleAdmin, testIssuer, 24)
	require.NoError(t, err)

	resp := get(t, guarded(), "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestGetters_VaciosSinAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/recurso", echoLocals)

	resp := get(t, app, "Bearer "+accessToken(t, entity.RoleAdmin))
	defer resp.Body.Close()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body["user_id"])
	assert.Empty(t, body["email"])
	assert.Empty(t, body["role"])
}

// RequireRole

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		role    string
		status  int
		code    string
	}{
		{"rol exacto", []string{entity.RoleAdmin}, entity.RoleAdmin, http.StatusOK, ""},
		{"uno de varios", []string{entity.RoleAdmin, entity.RoleManager}, entity.RoleManager, http.StatusOK, ""},
		{"rol distinto", []string{entity.RoleAdmin}, entity.RoleSalesExecutive, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{entity.RoleAdmin}, "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, guarded(apphttp.RequireRole(tc.allowed...)), "Bearer "+accessToken(t, tc.role))
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code == "" {
				resp.Body.Close()
				return
			}
			assert.Equal(t, tc.code, decodeError(t, resp).Code)
		})
	}
}

// RequirePermission

type fakePermissions struct {
	granted []string
	err     error
	asked   string
}

func (f *fakePermissions) Permissions(_ context.Context, userID string) ([]string, error) {
	f.asked = userID
	return f.granted, f.err
}

func TestRequirePermission_BastaUnoDeLosPermisos(t *testing.T) {
	checker := &fakePermissions{granted: []string{"view_sales"}}
	app := guarded(apphttp.RequirePermission(checker, "edit_sales", "view_sales"))

	resp := get(t, app, "Bearer "+accessToken(t, entity.RoleAccountant))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testUserID, checker.asked)
}

func TestRequirePermission_Rechazos(t *testing.T) {
	cases := []struct {
		name    string
		checker *fakePermissions
		status  int
		code    string
		message string
	}{
		{
			name:    "ninguno de los permisos",
			checker: &fakePermissions{granted: []string{"view_products"}},
			status:  http.StatusForbidden,
			code:    "FORBIDDEN",
			message: "edit_sales o delete_sales",
		},
		{
			name:    "cuenta inactiva",
			checker: &fakePermissions{err: domain.ErrForbidden},
			status:  http.StatusForbidden,
			code:    "FORBIDDEN",
			message: "inactiva",
		},
		{
			name:    "usuario eliminado",
			checker: &fakePermissions{err: domain.ErrUserNotFound},
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
		},
		{
			name:    "falla la consulta",
			checker: &fakePermissions{err: errors.New("conexión rechazada")},
			status:  http.StatusServiceUnavailable,
			code:    "PERMISSION_CHECK_FAILED",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := guarded(apphttp.RequirePermission(tc.checker, "edit_sales", "delete_sales"))
			resp := get(t, app, "Bearer "+accessToken(t, entity.RoleSalesExecutive))
			assert.Equal(t, tc.status, resp.StatusCode)
			e := decodeError(t, resp)
			assert.Equal(t, tc.code, e.Code)
			assert.Contains(t, e.Message, tc.message)
			assert.NotContains(t, e.Message, "conexión rechazada")
		})
	}
}

func TestRequirePermission_SinUsuarioEnContexto(t *testing.T) {
	checker := &fakePermissions{granted: []string{"view_sales"}}
	app := fiber.New()
	app.Get("/recurso", apphttp.RequirePermission(checker, "view_sales"), echoLocals)

	resp := get(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)
	assert.Empty(t, checker.asked)
}
