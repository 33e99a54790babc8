package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gemma-chat/internal/domain"
	"gemma-chat/internal/llm"
	"gemma-chat/internal/repository"
)

const (
	// DefaultChatTitle es el título con que nace todo chat.
	DefaultChatTitle = "New Chat"

	// titleMaxRunes limita el título derivado del primer mensaje.
	titleMaxRunes = 45
)

var ErrEmptyMessage = errors.New("empty message")

// ChatService encapsula la lógica de chats: ciclo de vida y envío de mensajes.
type ChatService struct {
	repo   repository.ChatRepository
	llm    llm.Client
	logger *zap.Logger
}

func NewChatService(repo repository.ChatRepository, llmClient llm.Client, logger *zap.Logger) *ChatService {
	return &ChatService{
		repo:   repo,
		llm:    llmClient,
		logger: logger,
	}
}

// List devuelve los chats del dueño, más recientes primero.
func (s *ChatService) List(ctx context.Context, ownerID string) ([]domain.Chat, error) {
	return s.repo.List(ctx, ownerID)
}

// Create crea un chat nuevo; sin título usa el título por defecto.
func (s *ChatService) Create(ctx context.Context, ownerID, title string) (domain.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultChatTitle
	}
	chat := domain.Chat{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, chat); err != nil {
		return domain.Chat{}, fmt.Errorf("create chat: %w", err)
	}
	return chat, nil
}

// Get devuelve el chat con su historial completo.
func (s *ChatService) Get(ctx context.Context, ownerID, id string) (domain.Chat, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// Delete elimina el chat del dueño.
func (s *ChatService) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// SendMessage agrega el mensaje del usuario, genera la respuesta del
// asistente con el historial completo y persiste ambos turnos. En el primer
// intercambio el título del chat se deriva del mensaje del usuario.
func (s *ChatService) SendMessage(ctx context.Context, ownerID, chatID, text string) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, ErrEmptyMessage
	}

	chat, err := s.repo.GetByID(ctx, ownerID, chatID)
	if err != nil {
		return domain.Message{}, err
	}

	reply, err := s.llm.Reply(ctx, chat.Messages, text)
	if err != nil {
		return domain.Message{}, fmt.Errorf("generate reply: %w", err)
	}

	newTitle := ""
	if len(chat.Messages) == 0 {
		newTitle = deriveTitle(text)
	}

	userMsg := domain.Message{Role: domain.RoleUser, Content: text}
	assistantMsg := domain.Message{Role: domain.RoleAssistant, Content: reply}
	if err := s.repo.AppendExchange(ctx, ownerID, chatID, userMsg, assistantMsg, newTitle); err != nil {
		return domain.Message{}, fmt.Errorf("append exchange: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("message exchange",
			zap.String("chat_id", chatID),
			zap.Int("history_len", len(chat.Messages)),
			zap.Bool("retitled", newTitle != ""),
		)
	}
	return assistantMsg, nil
}

// deriveTitle recorta el primer mensaje del usuario a titleMaxRunes runas,
// con "…" cuando hubo recorte.
func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleMaxRunes {
		return text
	}
	return string(runes[:titleMaxRunes]) + "…"
}
