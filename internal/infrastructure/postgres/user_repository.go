package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/kodbank-api/internal/domain"
	"github.com/jhoicas/kodbank-api/internal/domain/entity"
	"github.com/jhoicas/kodbank-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// Las filas de kod_users son insert-only: no hay Update ni Delete porque
// ninguna operación del backend muta saldos ni perfiles.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para clientes.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create persiste un nuevo cliente. La constraint UNIQUE de uid/username es
// la que resuelve registros concurrentes con los mismos datos.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO kod_users (id, uid, username, password_hash, email, phone, role, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(context.Background(), query,
		user.ID, user.UID, user.Username, user.PasswordHash, user.Email, user.Phone,
		user.Role, user.Balance, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByUID obtiene un cliente por su código de cuenta externo.
func (r *UserRepo) FindByUID(uid string) (*entity.User, error) {
	return r.findOne(context.Background(), `WHERE uid = $1`, uid)
}

// FindByUsername obtiene un cliente por su nombre de login.
func (r *UserRepo) FindByUsername(username string) (*entity.User, error) {
	return r.findOne(context.Background(), `WHERE username = $1`, username)
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `
		SELECT id, uid, username, password_hash, email, phone, role, balance, created_at
		FROM kod_users ` + where
	var u entity.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.UID, &u.Username, &u.PasswordHash, &u.Email, &u.Phone,
		&u.Role, &u.Balance, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
