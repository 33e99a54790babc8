package llm

import (
	"context"

	"gemma-chat/internal/domain"
)

// PlaceholderClient responde con un texto fijo cuando no hay modelo
// configurado. Mantiene el backend usable en desarrollo.
type PlaceholderClient struct {
	Response string
}

func NewPlaceholderClient() *PlaceholderClient {
	return &PlaceholderClient{Response: "Gemma reply here"}
}

func (c *PlaceholderClient) Reply(_ context.Context, _ []domain.Message, _ string) (string, error) {
	return c.Response, nil
}
