package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"gemma-chat/internal/domain"
	"gemma-chat/internal/llm"
	"gemma-chat/internal/repository"
)

type mockChatRepo struct {
	chats map[string]*domain.Chat
}

func newMockChatRepo() *mockChatRepo {
	return &mockChatRepo{chats: make(map[string]*domain.Chat)}
}

func (m *mockChatRepo) Create(_ context.Context, chat domain.Chat) error {
	copied := chat
	m.chats[chat.ID] = &copied
	return nil
}

func (m *mockChatRepo) List(_ context.Context, ownerID string) ([]domain.Chat, error) {
	var out []domain.Chat
	for _, chat := range m.chats {
		if chat.OwnerID == ownerID {
			out = append(out, *chat)
		}
	}
	return out, nil
}

func (m *mockChatRepo) GetByID(_ context.Context, ownerID, id string) (domain.Chat, error) {
	chat, ok := m.chats[id]
	if !ok || chat.OwnerID != ownerID {
		return domain.Chat{}, repository.ErrChatNotFound
	}
	return *chat, nil
}

func (m *mockChatRepo) Delete(_ context.Context, ownerID, id string) error {
	chat, ok := m.chats[id]
	if !ok || chat.OwnerID != ownerID {
		return repository.ErrChatNotFound
	}
	delete(m.chats, id)
	return nil
}

func (m *mockChatRepo) AppendExchange(_ context.Context, ownerID, id string, userMsg, assistantMsg domain.Message, newTitle string) error {
	chat, ok := m.chats[id]
	if !ok || chat.OwnerID != ownerID {
		return repository.ErrChatNotFound
	}
	chat.Messages = append(chat.Messages, userMsg, assistantMsg)
	if newTitle != "" {
		chat.Title = newTitle
	}
	return nil
}

func TestChatService_CreateUsesDefaultTitle(t *testing.T) {
	svc := NewChatService(newMockChatRepo(), &llm.MockClient{}, zap.NewNop())

	chat, err := svc.Create(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if chat.Title != DefaultChatTitle {
		t.Fatalf("expected default title, got %q", chat.Title)
	}
	if chat.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestChatService_SendMessageRejectsEmpty(t *testing.T) {
	mock := &llm.MockClient{Response: "hello"}
	svc := NewChatService(newMockChatRepo(), mock, zap.NewNop())

	_, err := svc.SendMessage(context.Background(), "u1", "x", "   \n\t ")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if mock.Calls != 0 {
		t.Fatalf("expected no llm calls, got %d", mock.Calls)
	}
}

func TestChatService_SendMessageAppendsExchangeAndRetitles(t *testing.T) {
	repo := newMockChatRepo()
	svc := NewChatService(repo, &llm.MockClient{Response: "hello"}, zap.NewNop())
	ctx := context.Background()

	chat, err := svc.Create(ctx, "u1", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	reply, err := svc.SendMessage(ctx, "u1", chat.ID, "  hi  ")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Role != domain.RoleAssistant || reply.Content != "hello" {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	stored, err := svc.Get(ctx, "u1", chat.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(stored.Messages))
	}
	if stored.Messages[0].Content != "hi" {
		t.Fatalf("expected trimmed content, got %q", stored.Messages[0].Content)
	}
	if stored.Title != "hi" {
		t.Fatalf("expected title from first exchange, got %q", stored.Title)
	}

	// El segundo intercambio no cambia el título.
	if _, err := svc.SendMessage(ctx, "u1", chat.ID, "something else entirely"); err != nil {
		t.Fatalf("send: %v", err)
	}
	stored, _ = svc.Get(ctx, "u1", chat.ID)
	if stored.Title != "hi" {
		t.Fatalf("title changed on second exchange: %q", stored.Title)
	}
}

func TestChatService_SendMessageLLMFailureDoesNotPersist(t *testing.T) {
	repo := newMockChatRepo()
	svc := NewChatService(repo, &llm.MockClient{Err: errors.New("model down")}, zap.NewNop())
	ctx := context.Background()

	chat, err := svc.Create(ctx, "u1", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SendMessage(ctx, "u1", chat.ID, "hi"); err == nil {
		t.Fatal("expected error")
	}
	stored, _ := svc.Get(ctx, "u1", chat.ID)
	if len(stored.Messages) != 0 {
		t.Fatalf("expected no persisted messages, got %d", len(stored.Messages))
	}
	if stored.Title != DefaultChatTitle {
		t.Fatalf("title changed on failed exchange: %q", stored.Title)
	}
}

func TestDeriveTitle_TruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("a", 60)
	got := deriveTitle(long)
	if wantLen := 46; len([]rune(got)) != wantLen {
		t.Fatalf("expected %d runes, got %d", wantLen, len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}

	short := "short message"
	if deriveTitle(short) != short {
		t.Fatalf("short message should be untouched")
	}

	// El recorte cuenta runas, no bytes.
	accented := strings.Repeat("á", 45)
	if deriveTitle(accented) != accented {
		t.Fatalf("45 runes should be untouched")
	}
}
