package statement

import (
	"context"
	"time"

	"github.com/jhoicas/kodbank-api/internal/domain"
	"github.com/jhoicas/kodbank-api/internal/domain/entity"
	"github.com/jhoicas/kodbank-api/internal/domain/repository"
)

// StatementPDFGenerator puerto de generación del extracto de cuenta en PDF.
// Lo implementa el adaptador Maroto en infrastructure/pdf.
type StatementPDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, user *entity.User, sessions []*entity.UserToken, issuedAt time.Time) ([]byte, error)
}

// StatementUseCase arma el extracto de cuenta del cliente: datos de la
// cuenta, saldo actual y las últimas sesiones registradas.
type StatementUseCase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	generator StatementPDFGenerator
}

// NewStatementUseCase construye el caso de uso.
func NewStatementUseCase(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, generator StatementPDFGenerator) *StatementUseCase {
	return &StatementUseCase{userRepo: userRepo, tokenRepo: tokenRepo, generator: generator}
}

// maxSessionsInStatement cuántas sesiones recientes se listan en el extracto.
const maxSessionsInStatement = 10

// Generate produce el PDF del extracto para el username verificado.
func (uc *StatementUseCase) Generate(ctx context.Context, username string) ([]byte, error) {
	user, err := uc.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	sessions, err := uc.tokenRepo.ListByUserUID(user.UID, maxSessionsInStatement)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateStatementPDF(ctx, user, sessions, time.Now())
}
