package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/kodbank-api/internal/domain/entity"
	"github.com/jhoicas/kodbank-api/internal/domain/repository"
)

var _ repository.TokenRepository = (*TokenRepo)(nil)

// TokenRepo implementación del log de sesiones sobre PostgreSQL.
// Solo inserta y lista; las filas nunca se actualizan ni se borran.
type TokenRepo struct {
	pool *pgxpool.Pool
}

// NewTokenRepository construye el adaptador del log de sesiones.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepo {
	return &TokenRepo{pool: pool}
}

// Create registra una sesión emitida.
func (r *TokenRepo) Create(token *entity.UserToken) error {
	query := `
		INSERT INTO user_tokens (id, user_uid, token, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(context.Background(), query,
		token.ID, token.UserUID, token.Token, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user token: %w", err)
	}
	return nil
}

// ListByUserUID devuelve las sesiones más recientes del cliente.
func (r *TokenRepo) ListByUserUID(uid string, limit int) ([]*entity.UserToken, error) {
	query := `
		SELECT id, user_uid, token, created_at
		FROM user_tokens WHERE user_uid = $1
		ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(context.Background(), query, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("list user tokens: %w", err)
	}
	defer rows.Close()
	var list []*entity.UserToken
	for rows.Next() {
		var t entity.UserToken
		if err := rows.Scan(&t.ID, &t.UserUID, &t.Token, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user token: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
