package entity

import "time"

// UserToken es el registro de auditoría de cada sesión emitida.
// La tabla es append-only: la verificación de tokens es autocontenida en la
// firma JWT y nunca consulta estos registros, por lo que el logout solo
// limpia la cookie del cliente.
// Se referencia al cliente por UID (inmutable), no por username.
type UserToken struct {
	ID        string
	UserUID   string
	Token     string
	CreatedAt time.Time
}
