package repository

import "github.com/jhoicas/kodbank-api/internal/domain/entity"

// UserRepository puerto de persistencia para usuarios.
// Los métodos Find* devuelven (nil, nil) cuando no hay fila, igual que el
// resto de repositorios del proyecto.
type UserRepository interface {
	Create(user *entity.User) error
	FindByUID(uid string) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
}
