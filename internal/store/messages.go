package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Message is one immutable entry in a conversation's message log.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderUsername string    `json:"senderUsername"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Messages is the append-only ordered message log scoped to conversations.
type Messages struct {
	pool *pgxpool.Pool
}

// NewMessages creates a new Messages repository.
func NewMessages(pool *pgxpool.Pool) *Messages {
	return &Messages{pool: pool}
}

// Append inserts a message and refreshes the owning conversation's denormalized
// last-message fields in a single transaction, so a failure of either step
// leaves both unchanged. Participant and text validation belong to the caller.
func (r *Messages) Append(ctx context.Context, conversationID, senderUsername, text string) (Message, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Message{}, err
	}
	defer tx.Rollback(ctx)

	msg := Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderUsername: senderUsername,
		Text:           text,
	}

	insert := `INSERT INTO messages (id, conversation_id, sender_username, text)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if err := tx.QueryRow(ctx, insert, msg.ID, msg.ConversationID, msg.SenderUsername, msg.Text).Scan(&msg.CreatedAt); err != nil {
		return Message{}, err
	}

	update := `UPDATE conversations
		SET last_message = $2, last_message_at = $3, updated_at = now()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, update, msg.ConversationID, msg.Text, msg.CreatedAt)
	if err != nil {
		return Message{}, err
	}
	if tag.RowsAffected() == 0 {
		return Message{}, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// ListByConversation returns all messages for the conversation in ascending
// creation order. History is small enough that pagination is deferred.
func (r *Messages) ListByConversation(ctx context.Context, conversationID string) ([]Message, error) {
	query := `SELECT id, conversation_id, sender_username, text, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderUsername, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
