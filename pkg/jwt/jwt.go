package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos por la API.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType se devuelve cuando se presenta un refresh token donde se espera uno de acceso (o al revés).
var ErrWrongTokenType = errors.New("jwt: tipo de token incorrecto")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token para que el middleware RBAC decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
}

// Generate genera un token de acceso firmado con userID, email y role.
func Generate(secret, userID, email, role, issuer string, expMinutes int) (string, error) {
	return sign(secret, userID, email, role, issuer, TokenTypeAccess, time.Duration(expMinutes)*time.Minute)
}

// GenerateRefresh genera un refresh token; expHours define su vigencia.
func GenerateRefresh(secret, userID, email, role, issuer string, expHours int) (string, error) {
	return sign(secret, userID, email, role, issuer, TokenTypeRefresh, time.Duration(expHours)*time.Hour)
}

func sign(secret, userID, email, role, issuer, tokenType string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida un token de acceso y devuelve userID, email y role.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o es un refresh token.
func Parse(secret, tokenString string) (userID, email, role string, err error) {
	c, err := parseClaims(secret, tokenString)
	if err != nil {
		return "", "", "", err
	}
	if c.TokenType != TokenTypeAccess {
		return "", "", "", ErrWrongTokenType
	}
	return c.UserID, c.Email, c.Role, nil
}

// ParseRefresh valida un refresh token y devuelve sus claims.
func ParseRefresh(secret, tokenString string) (*Claims, error) {
	c, err := parseClaims(secret, tokenString)
	if err != nil {
		return nil, err
	}
	if c.TokenType != TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}
	return c, nil
}

func parseClaims(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
