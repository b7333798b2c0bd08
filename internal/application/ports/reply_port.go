package ports

import (
	"context"

	"github.com/jhoicas/kodbank-api/internal/application/dto"
)

// ReplyProvider define el puerto de salida para los generadores de respuestas
// del chat. Cualquier adaptador (Groq, HuggingFace, DeepSeek, tabla local,
// mock) debe implementar esta interfaz; la aplicación solo conoce este
// contrato, no la implementación concreta.
type ReplyProvider interface {
	// Name identifica al proveedor en logs y en el campo source de la respuesta.
	Name() string

	// Reply recibe el historial de la conversación y el username del cliente
	// y devuelve el texto de respuesta del asistente.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Reply(ctx context.Context, messages []dto.ChatMessage, username string) (string, error)
}
