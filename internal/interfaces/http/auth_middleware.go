package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kodbank-api/internal/application/dto"
	"github.com/jhoicas/kodbank-api/pkg/jwt"
)

// Locals keys para Username y Role en Fiber.
const (
	LocalUsername = "username"
	LocalRole     = "role"
)

// AuthMiddleware valida el JWT de la cookie HTTP-only y extrae Username y
// Role a c.Locals. El token nunca se acepta por header: la sesión vive solo
// en la cookie jwt_token.
//
// Respuestas:
//   - 401 MISSING_TOKEN   → no hay cookie.
//   - 401 SESSION_EXPIRED → el token venció; el cliente debe reautenticarse.
//   - 401 INVALID_TOKEN   → firma incorrecta, payload alterado o malformado.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(jwt.CookieName)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "no hay sesión activa, inicia sesión primero"})
		}
		username, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			if jwt.IsExpired(err) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "sesión expirada, inicia sesión de nuevo"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido, inicia sesión de nuevo"})
		}
		c.Locals(LocalUsername, username)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// GetUsername devuelve el Username del contexto (después del middleware de auth).
func GetUsername(c *fiber.Ctx) string {
	v := c.Locals(LocalUsername)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el Role del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
