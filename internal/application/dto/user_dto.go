package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest entrada para registro: uid, username, password, email y phone
// son obligatorios; role es opcional y solo admite "Customer".
type RegisterRequest struct {
	UID      string `json:"uid" validate:"required,max=50"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=Customer"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida de login. El token viaja además en la cookie
// HTTP-only jwt_token; aquí solo se confirma la sesión.
type LoginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Token    string `json:"-"` // nunca serializado en el cuerpo
}

// UserResponse salida de un usuario (sin password_hash).
type UserResponse struct {
	UID       string          `json:"uid"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Role      string          `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// BalanceResponse salida de GET /api/balance.
type BalanceResponse struct {
	Balance  decimal.Decimal `json:"balance"`
	Username string          `json:"username"`
}

// AuthStatusResponse salida de GET /api/auth/status. Siempre HTTP 200;
// logged_in indica si la cookie contiene un token vigente.
type AuthStatusResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Username string `json:"username,omitempty"`
}

// SessionResponse una entrada del log de sesiones emitidas.
type SessionResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
