package repository

import "github.com/jhoicas/kodbank-api/internal/domain/entity"

// TokenRepository puerto del log de sesiones emitidas (append-only).
type TokenRepository interface {
	Create(token *entity.UserToken) error
	ListByUserUID(uid string, limit int) ([]*entity.UserToken, error)
}
