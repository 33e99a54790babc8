package llm

import (
	"context"

	"gemma-chat/internal/domain"
)

// Client define la interfaz para generar la respuesta del asistente a partir
// del historial de la conversación. El backend la trata como una función
// opaca: historial + mensaje nuevo → texto de respuesta.
type Client interface {
	Reply(ctx context.Context, history []domain.Message, userMessage string) (string, error)
}
