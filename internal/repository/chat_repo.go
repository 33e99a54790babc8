package repository

import (
	"context"
	"errors"

	"gemma-chat/internal/domain"
)

var ErrChatNotFound = errors.New("chat not found")

// ChatRepository define el acceso a chats y sus mensajes, acotado por dueño.
type ChatRepository interface {
	Create(ctx context.Context, chat domain.Chat) error
	// List devuelve los chats del dueño, más recientes primero, sin mensajes.
	List(ctx context.Context, ownerID string) ([]domain.Chat, error)
	GetByID(ctx context.Context, ownerID, id string) (domain.Chat, error)
	Delete(ctx context.Context, ownerID, id string) error
	// AppendExchange agrega el par usuario/asistente y, si newTitle no es
	// vacío, actualiza el título del chat en la misma operación.
	AppendExchange(ctx context.Context, ownerID, id string, userMsg, assistantMsg domain.Message, newTitle string) error
}
