package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sort"
	"sync"
	"time"

	"gemma-chat/internal/domain"
)

// FileChatRepository persiste los chats en un archivo JSON en disco,
// de modo que sobreviven reinicios del servidor. Pensado para desarrollo;
// en producción se usa la implementación Postgres.
type FileChatRepository struct {
	mu   sync.Mutex
	path string
}

type fileChatRecord struct {
	OwnerID   string           `json:"owner_id"`
	Title     string           `json:"title"`
	CreatedAt string           `json:"created_at"`
	Messages  []domain.Message `json:"messages"`
}

func NewFileChatRepository(path string) *FileChatRepository {
	return &FileChatRepository{path: path}
}

func (r *FileChatRepository) load() (map[string]fileChatRecord, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return map[string]fileChatRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	records := map[string]fileChatRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *FileChatRepository) save(records map[string]fileChatRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

func (r *FileChatRepository) Create(_ context.Context, chat domain.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	records[chat.ID] = fileChatRecord{
		OwnerID:   chat.OwnerID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000"),
		Messages:  []domain.Message{},
	}
	return r.save(records)
}

func (r *FileChatRepository) List(_ context.Context, ownerID string) ([]domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}
	var chats []domain.Chat
	for id, rec := range records {
		if rec.OwnerID != ownerID {
			continue
		}
		chats = append(chats, r.toChat(id, rec, false))
	}
	// Más recientes primero; el timestamp ISO ordena lexicográficamente.
	sort.Slice(chats, func(i, j int) bool {
		if !chats[i].CreatedAt.Equal(chats[j].CreatedAt) {
			return chats[i].CreatedAt.After(chats[j].CreatedAt)
		}
		return chats[i].ID < chats[j].ID
	})
	return chats, nil
}

func (r *FileChatRepository) GetByID(_ context.Context, ownerID, id string) (domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return domain.Chat{}, err
	}
	rec, ok := records[id]
	if !ok || rec.OwnerID != ownerID {
		return domain.Chat{}, ErrChatNotFound
	}
	return r.toChat(id, rec, true), nil
}

func (r *FileChatRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	rec, ok := records[id]
	if !ok || rec.OwnerID != ownerID {
		return ErrChatNotFound
	}
	delete(records, id)
	return r.save(records)
}

func (r *FileChatRepository) AppendExchange(_ context.Context, ownerID, id string, userMsg, assistantMsg domain.Message, newTitle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}
	rec, ok := records[id]
	if !ok || rec.OwnerID != ownerID {
		return ErrChatNotFound
	}
	rec.Messages = append(rec.Messages, userMsg, assistantMsg)
	if newTitle != "" {
		rec.Title = newTitle
	}
	records[id] = rec
	return r.save(records)
}

func (r *FileChatRepository) toChat(id string, rec fileChatRecord, withMessages bool) domain.Chat {
	chat := domain.Chat{
		ID:      id,
		OwnerID: rec.OwnerID,
		Title:   rec.Title,
	}
	chat.CreatedAt, _ = parseFileTimestamp(rec.CreatedAt)
	if withMessages {
		chat.Messages = rec.Messages
	}
	return chat
}

// parseFileTimestamp acepta el formato propio y RFC3339 para archivos
// generados por versiones anteriores del backend.
func parseFileTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05.000000", time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized timestamp: " + s)
}
