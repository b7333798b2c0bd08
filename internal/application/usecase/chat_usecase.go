package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/kodbank-api/internal/application/dto"
	"github.com/jhoicas/kodbank-api/internal/application/ports"
	"github.com/jhoicas/kodbank-api/internal/domain"
	"github.com/jhoicas/kodbank-api/pkg/logger"
)

// ChatUseCase orquesta el chat del asistente bancario.
// Recorre los proveedores externos configurados en orden y devuelve la
// primera respuesta exitosa; si todos fallan responde ErrUpstreamFailed.
// Cuando no hay ningún proveedor externo configurado se usa el fallback
// local de respuestas por palabra clave, que nunca falla.
// Cada llamada externa lleva un timeout de 30 s para no bloquear los
// goroutines del servidor.
type ChatUseCase struct {
	providers []ports.ReplyProvider
	fallback  ports.ReplyProvider
	log       *logger.Logger
}

// NewChatUseCase construye el caso de uso. providers puede estar vacío;
// fallback es obligatorio (la tabla local).
func NewChatUseCase(providers []ports.ReplyProvider, fallback ports.ReplyProvider, log *logger.Logger) *ChatUseCase {
	return &ChatUseCase{providers: providers, fallback: fallback, log: log}
}

// providerTimeout timeout por llamada a un proveedor externo.
const providerTimeout = 30 * time.Second

// Chat valida la entrada y delega en la cadena de proveedores.
func (uc *ChatUseCase) Chat(ctx context.Context, req dto.ChatRequest, username string) (*dto.ChatResponse, error) {
	if len(req.Messages) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, m := range req.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return nil, domain.ErrInvalidInput
		}
	}

	// Sin proveedores externos: tabla local de respuestas (siempre responde).
	if len(uc.providers) == 0 {
		reply, err := uc.fallback.Reply(ctx, req.Messages, username)
		if err != nil {
			return nil, err
		}
		return &dto.ChatResponse{Reply: reply, Source: uc.fallback.Name()}, nil
	}

	// Cadena secuencial: cada proveedor distinto es un fallback del anterior,
	// no un reintento de la misma llamada.
	var lastErr error
	for _, p := range uc.providers {
		callCtx, cancel := context.WithTimeout(ctx, providerTimeout)
		reply, err := p.Reply(callCtx, req.Messages, username)
		cancel()
		if err != nil {
			uc.log.Warn().Err(err).Str("provider", p.Name()).Msg("proveedor de chat falló, probando el siguiente")
			lastErr = err
			continue
		}
		return &dto.ChatResponse{Reply: reply, Source: p.Name()}, nil
	}

	uc.log.Error().Err(lastErr).Msg("todos los proveedores de chat fallaron")
	return nil, domain.ErrUpstreamFailed
}
