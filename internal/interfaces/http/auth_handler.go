package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kodbank-api/internal/application/auth"
	"github.com/jhoicas/kodbank-api/internal/application/dto"
	"github.com/jhoicas/kodbank-api/internal/domain"
	"github.com/jhoicas/kodbank-api/pkg/jwt"
)

// AuthHandler maneja registro, login, logout y estado de sesión.
type AuthHandler struct {
	uc        *auth.AuthUseCase
	jwtSecret string
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, jwtSecret string) *AuthHandler {
	return &AuthHandler{uc: uc, jwtSecret: jwtSecret}
}

// Register godoc
// @Summary      Registrar cliente
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "uid, username, password, email, phone, role opcional"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.UID == "" || in.Username == "" || in.Password == "" || in.Email == "" || in.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "uid, username, password, email y phone son requeridos"})
	}
	user, err := h.uc.Register(in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRole) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "solo se permite el rol Customer"})
		}
		if errors.Is(err, domain.ErrDuplicateUser) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el uid o el username ya existen"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error al registrar"})
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión (deja el token en cookie HTTP-only)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Username == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password son requeridos"})
	}
	out, err := h.uc.Login(in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario o contraseña inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error al iniciar sesión"})
	}

	ttl := h.uc.TokenTTL()
	c.Cookie(&fiber.Cookie{
		Name:     jwt.CookieName,
		Value:    out.Token,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (solo limpia la cookie del cliente)
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	// El logout es solo de lado cliente: la verificación de tokens es
	// autocontenida en la firma, así que un token ya emitido sigue siendo
	// válido hasta su expiración natural.
	c.Cookie(&fiber.Cookie{
		Name:     jwt.CookieName,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(dto.MessageResponse{Message: "Sesión cerrada"})
}

// Status godoc
// @Summary      Estado de la sesión actual
// @Description  Siempre responde 200; loggedIn indica si la cookie contiene un token vigente.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.AuthStatusResponse
// @Router       /api/auth/status [get]
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	tokenString := c.Cookies(jwt.CookieName)
	if tokenString == "" {
		return c.JSON(dto.AuthStatusResponse{LoggedIn: false})
	}
	username, _, err := jwt.Parse(h.jwtSecret, tokenString)
	if err != nil {
		return c.JSON(dto.AuthStatusResponse{LoggedIn: false})
	}
	return c.JSON(dto.AuthStatusResponse{LoggedIn: true, Username: username})
}
