package llm

import (
	"context"

	"gemma-chat/internal/domain"
)

// MockClient permite tests sin llamar a un modelo real.
type MockClient struct {
	Response string
	Err      error
	Calls    int
}

func (m *MockClient) Reply(_ context.Context, _ []domain.Message, _ string) (string, error) {
	m.Calls++
	return m.Response, m.Err
}
