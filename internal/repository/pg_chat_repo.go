package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gemma-chat/internal/domain"
)

type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) Create(ctx context.Context, chat domain.Chat) error {
	const query = `
		INSERT INTO chats (id, owner_id, title, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, chat.ID, chat.OwnerID, chat.Title, chat.CreatedAt)
	return err
}

func (r *PgChatRepository) List(ctx context.Context, ownerID string) ([]domain.Chat, error) {
	const query = `
		SELECT id, owner_id, title, created_at
		FROM chats
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		var chat domain.Chat
		if err := rows.Scan(&chat.ID, &chat.OwnerID, &chat.Title, &chat.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *PgChatRepository) GetByID(ctx context.Context, ownerID, id string) (domain.Chat, error) {
	const query = `
		SELECT id, owner_id, title, created_at
		FROM chats
		WHERE owner_id = $1 AND id = $2
	`
	var chat domain.Chat
	err := r.pool.QueryRow(ctx, query, ownerID, id).Scan(&chat.ID, &chat.OwnerID, &chat.Title, &chat.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Chat{}, ErrChatNotFound
	}
	if err != nil {
		return domain.Chat{}, err
	}

	const msgQuery = `
		SELECT role, content
		FROM chat_messages
		WHERE chat_id = $1
		ORDER BY seq ASC
	`
	rows, err := r.pool.Query(ctx, msgQuery, id)
	if err != nil {
		return domain.Chat{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return domain.Chat{}, err
		}
		chat.Messages = append(chat.Messages, msg)
	}
	return chat, rows.Err()
}

func (r *PgChatRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `
		DELETE FROM chats
		WHERE owner_id = $1 AND id = $2
	`
	tag, err := r.pool.Exec(ctx, query, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrChatNotFound
	}
	return nil
}

func (r *PgChatRepository) AppendExchange(ctx context.Context, ownerID, id string, userMsg, assistantMsg domain.Message, newTitle string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM chats WHERE owner_id = $1 AND id = $2)`, ownerID, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrChatNotFound
	}

	const insert = `
		INSERT INTO chat_messages (chat_id, seq, role, content)
		VALUES ($1, (SELECT COALESCE(MAX(seq), 0) + 1 FROM chat_messages WHERE chat_id = $1), $2, $3)
	`
	for _, msg := range []domain.Message{userMsg, assistantMsg} {
		if _, err := tx.Exec(ctx, insert, id, msg.Role, msg.Content); err != nil {
			return err
		}
	}

	if newTitle != "" {
		if _, err := tx.Exec(ctx, `UPDATE chats SET title = $1 WHERE id = $2`, newTitle, id); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
