package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "ana@tienda.com", "manager", "stockpilot", 15)
	require.NoError(t, err)

	uid, email, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", uid)
	assert.Equal(t, "ana@tienda.com", email)
	assert.Equal(t, "manager", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "a@b.com", "admin", "stockpilot", 15)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "a@b.com", "admin", "stockpilot", -1)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_RechazaRefreshToken(t *testing.T) {
	tok, err := jwt.GenerateRefresh(secret, "u-1", "a@b.com", "admin", "stockpilot", 24)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse(secret, tok)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)

	claims, err := jwt.ParseRefresh(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestParseRefresh_RechazaAccessToken(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-1", "a@b.com", "admin", "stockpilot", 15)
	require.NoError(t, err)

	_, err = jwt.ParseRefresh(secret, tok)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-1", "a@b.com", "admin", "stockpilot", 15)
	assert.Error(t, err)
}
