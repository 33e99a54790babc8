package tui

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"gemma-chat/internal/api"
	"gemma-chat/internal/chatui"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	model, err := NewModel(context.Background(), zap.NewNop())
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return model
}

func TestSendRejected_RestoresDraft(t *testing.T) {
	model := newTestModel(t)

	updated, _ := model.Update(sendRejectedMsg{text: "hola que tal", err: chatui.ErrBusy})
	m := updated.(*Model)
	if got := m.textarea.Value(); got != "hola que tal" {
		t.Fatalf("expected draft restored, got %q", got)
	}
	if m.notice == "" {
		t.Fatal("expected a busy notice")
	}
}

func TestSendRejected_KeepsNewerTyping(t *testing.T) {
	model := newTestModel(t)
	model.textarea.SetValue("otro mensaje")

	updated, _ := model.Update(sendRejectedMsg{text: "viejo", err: chatui.ErrBusy})
	m := updated.(*Model)
	if got := m.textarea.Value(); got != "otro mensaje" {
		t.Fatalf("a newer draft must not be overwritten, got %q", got)
	}
}

func TestSendRejected_UnauthenticatedQuits(t *testing.T) {
	model := newTestModel(t)

	updated, _ := model.Update(sendRejectedMsg{text: "hola", err: api.ErrUnauthenticated})
	m := updated.(*Model)
	if m.textarea.Value() != "" {
		t.Fatal("no draft restore on an auth failure")
	}
	if m.FatalErr() == nil || !m.quitting {
		t.Fatal("expected the session to end")
	}
}
