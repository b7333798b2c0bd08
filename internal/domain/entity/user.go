package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para User. Solo Customer es creable desde la API pública.
const (
	RoleCustomer = "Customer"
)

// InitialBalance saldo inicial asignado a toda cuenta nueva (COP).
var InitialBalance = decimal.RequireFromString("100000.00")

// User representa un cliente del banco.
// UID es el código de cuenta asignado externamente; Username es el nombre
// público de login. Ambos son únicos de forma global.
type User struct {
	ID           string
	UID          string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Email        string
	Phone        string
	Role         string
	Balance      decimal.Decimal
	CreatedAt    time.Time
}
