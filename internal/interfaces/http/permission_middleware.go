package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/domain"
)

// permissionChecker es el contrato mínimo que necesita el middleware para leer permisos.
// Lo implementa *auth.AuthUseCase; los permisos se leen del usuario, no del token.
type permissionChecker interface {
	Permissions(ctx context.Context, userID string) ([]string, error)
}

// RequirePermission devuelve un middleware Fiber que exige al menos uno de los permisos.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 401 si no hay user_id en el contexto o el usuario ya no existe.
//   - 403 si el usuario está inactivo o no tiene ninguno de los permisos.
//   - 503 si falla la consulta de permisos.
func RequirePermission(checker permissionChecker, perms ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		granted, err := checker.Permissions(c.UserContext(), userID)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no encontrado"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva"})
		case err != nil:
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_CHECK_FAILED",
				Message: "no se pudieron verificar los permisos, intente más tarde",
			})
		}

		for _, want := range perms {
			for _, have := range granted {
				if want == have {
					return c.Next()
				}
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN",
			Message: "permiso requerido: " + strings.Join(perms, " o "),
		})
	}
}
