package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot-api/internal/application/auth"
	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockpilot-api/pkg/jwt"
)

const secret = "clave-de-pruebas"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		Secret:          secret,
		ExpMinutes:      15,
		RefreshExpHours: 24,
		Issuer:          "stockpilot",
	}, zerolog.Nop())
	return uc, store
}

func register(t *testing.T, uc *auth.AuthUseCase, email, role string) *dto.UserResponse {
	t.Helper()
	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Name: "Ana", Email: email, Password: "supersecreta", Role: role,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterUser_PermisosPorRol(t *testing.T) {
	uc, _ := newAuth(t)

	admin := register(t, uc, "admin@tienda.com", entity.RoleAdmin)
	assert.ElementsMatch(t, entity.AllPermissions, admin.Permissions)

	mgr := register(t, uc, "mgr@tienda.com", entity.RoleManager)
	assert.NotContains(t, mgr.Permissions, entity.PermManageUsers)
	assert.Len(t, mgr.Permissions, len(entity.AllPermissions)-1)

	sales := register(t, uc, "caja@tienda.com", "")
	assert.Equal(t, entity.RoleSalesExecutive, sales.Role)
	assert.ElementsMatch(t, []string{entity.PermViewSales, entity.PermCreateSales, entity.PermViewProducts}, sales.Permissions)
}

func TestRegisterUser_Errores(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	register(t, uc, "ana@tienda.com", entity.RoleAccountant)

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ANA@tienda.com", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "otro@tienda.com", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "no-es-email", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@tienda.com", Password: "supersecreta", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_GeneraTokensYRegistraAcceso(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	u := register(t, uc, "ana@tienda.com", entity.RoleManager)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@tienda.com", Password: "supersecreta"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.User.LastLogin)

	uid, email, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)
	assert.Equal(t, "ana@tienda.com", email)
	assert.Equal(t, entity.RoleManager, role)

	ref, err := uc.Refresh(ctx, dto.RefreshRequest{RefreshToken: res.RefreshToken})
	require.NoError(t, err)
	_, _, _, err = jwt.Parse(secret, ref.Token)
	assert.NoError(t, err)

	_, err = uc.Refresh(ctx, dto.RefreshRequest{RefreshToken: res.Token})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un token de acceso no sirve como refresh")
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	register(t, uc, "ana@tienda.com", entity.RoleManager)

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@tienda.com", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.com", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	u := register(t, uc, "ana@tienda.com", entity.RoleManager)

	err := uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "mal", NewPassword: "nuevaclave123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "supersecreta", NewPassword: "nuevaclave123"}))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@tienda.com", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@tienda.com", Password: "nuevaclave123"})
	assert.NoError(t, err)
}

func TestMe(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	u := register(t, uc, "ana@tienda.com", entity.RoleAccountant)

	me, err := uc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, me.Email)

	_, err = uc.Me(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	perms, err := uc.Permissions(ctx, u.ID)
	require.NoError(t, err)
	assert.Contains(t, perms, entity.PermViewReports)
}
