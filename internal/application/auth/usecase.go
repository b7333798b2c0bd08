package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/kodbank-api/internal/application/dto"
	"github.com/jhoicas/kodbank-api/internal/domain"
	"github.com/jhoicas/kodbank-api/internal/domain/entity"
	"github.com/jhoicas/kodbank-api/internal/domain/repository"
	"github.com/jhoicas/kodbank-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y consulta de cuenta:
// registro, login, saldo, perfil y log de sesiones.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokenRepo: tokenRepo, jwtCfg: jwtCfg}
}

// TokenTTL duración de la sesión, para que el handler fije el Max-Age de la cookie.
func (uc *AuthUseCase) TokenTTL() time.Duration {
	return time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute
}

// Register crea un cliente: hashea el password con bcrypt y persiste con el
// saldo inicial fijo y rol Customer. Devuelve ErrDuplicateUser si el uid o el
// username ya existen. La verificación previa da un error limpio; la
// constraint UNIQUE de la tabla resuelve la carrera entre registros
// concurrentes con el mismo username.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Role != "" && in.Role != entity.RoleCustomer {
		return nil, domain.ErrInvalidRole
	}
	if existing, err := uc.userRepo.FindByUID(in.UID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicateUser
	}
	if existing, err := uc.userRepo.FindByUsername(in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicateUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		UID:          in.UID,
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         entity.RoleCustomer,
		Balance:      entity.InitialBalance,
		CreatedAt:    time.Now(),
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica username/password, genera el JWT de sesión y lo registra en
// el log de tokens. El log es solo de auditoría: la verificación posterior es
// autocontenida en la firma del token.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	// La sesión se registra por el uid inmutable, no por el username.
	record := &entity.UserToken{
		ID:        uuid.New().String(),
		UserUID:   user.UID,
		Token:     token,
		CreatedAt: time.Now(),
	}
	if err := uc.tokenRepo.Create(record); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Message:  "Login exitoso",
		Username: user.Username,
		Token:    token,
	}, nil
}

// GetBalance devuelve el saldo del username verificado por el middleware.
func (uc *AuthUseCase) GetBalance(username string) (*dto.BalanceResponse, error) {
	user, err := uc.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return &dto.BalanceResponse{Balance: user.Balance, Username: user.Username}, nil
}

// GetProfile devuelve los campos no sensibles del cliente.
func (uc *AuthUseCase) GetProfile(username string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// ListSessions devuelve el historial de sesiones emitidas para el cliente
// (solo id y fecha; el token firmado nunca sale en respuestas).
func (uc *AuthUseCase) ListSessions(username string, limit int) ([]dto.SessionResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	user, err := uc.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	records, err := uc.tokenRepo.ListByUserUID(user.UID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.SessionResponse{ID: r.ID, CreatedAt: r.CreatedAt})
	}
	return out, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		UID:       u.UID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
	}
}
