package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gemma-chat/internal/domain"
)

func newTestFileRepo(t *testing.T) *FileChatRepository {
	t.Helper()
	return NewFileChatRepository(filepath.Join(t.TempDir(), "chats.json"))
}

func TestFileChatRepository_ListNewestFirst(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		chat := domain.Chat{ID: id, OwnerID: "u1", Title: "New Chat", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(ctx, chat); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	chats, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chats) != 3 {
		t.Fatalf("expected 3 chats, got %d", len(chats))
	}
	if chats[0].ID != "c" || chats[2].ID != "a" {
		t.Fatalf("wrong order: %s, %s, %s", chats[0].ID, chats[1].ID, chats[2].ID)
	}
}

func TestFileChatRepository_ScopedToOwner(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, domain.Chat{ID: "a", OwnerID: "u1", Title: "New Chat", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.GetByID(ctx, "u2", "a"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound for foreign owner, got %v", err)
	}
	chats, err := repo.List(ctx, "u2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chats) != 0 {
		t.Fatalf("expected no chats for u2, got %d", len(chats))
	}
}

func TestFileChatRepository_AppendExchangeAndRetitle(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, domain.Chat{ID: "a", OwnerID: "u1", Title: "New Chat", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	userMsg := domain.Message{Role: domain.RoleUser, Content: "hi"}
	assistantMsg := domain.Message{Role: domain.RoleAssistant, Content: "hello"}
	if err := repo.AppendExchange(ctx, "u1", "a", userMsg, assistantMsg, "hi"); err != nil {
		t.Fatalf("append: %v", err)
	}

	chat, err := repo.GetByID(ctx, "u1", "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if chat.Title != "hi" {
		t.Fatalf("expected retitle, got %q", chat.Title)
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(chat.Messages))
	}
	if chat.Messages[0].Role != domain.RoleUser || chat.Messages[1].Role != domain.RoleAssistant {
		t.Fatalf("wrong roles: %+v", chat.Messages)
	}

	// Sin newTitle el título queda como está.
	if err := repo.AppendExchange(ctx, "u1", "a", userMsg, assistantMsg, ""); err != nil {
		t.Fatalf("append: %v", err)
	}
	chat, err = repo.GetByID(ctx, "u1", "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if chat.Title != "hi" {
		t.Fatalf("title changed unexpectedly: %q", chat.Title)
	}
	if len(chat.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(chat.Messages))
	}
}

func TestFileChatRepository_DeleteAndPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	repo := NewFileChatRepository(path)
	ctx := context.Background()

	if err := repo.Create(ctx, domain.Chat{ID: "a", OwnerID: "u1", Title: "New Chat", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Un repositorio nuevo sobre el mismo archivo ve el chat.
	reopened := NewFileChatRepository(path)
	if _, err := reopened.GetByID(ctx, "u1", "a"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}

	if err := reopened.Delete(ctx, "u1", "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := reopened.Delete(ctx, "u1", "a"); !errors.Is(err, ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}
