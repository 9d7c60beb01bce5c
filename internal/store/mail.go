package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MailEntry is a letter-to-the-editor style submission.
type MailEntry struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Mail persists mailbox submissions.
type Mail struct {
	pool *pgxpool.Pool
}

// NewMail creates a new Mail repository.
func NewMail(pool *pgxpool.Pool) *Mail {
	return &Mail{pool: pool}
}

// Create inserts a new mail entry.
func (r *Mail) Create(ctx context.Context, m MailEntry) (MailEntry, error) {
	m.ID = uuid.New().String()

	query := `INSERT INTO mail (id, author_id, content) VALUES ($1, $2, $3) RETURNING created_at`
	if err := r.pool.QueryRow(ctx, query, m.ID, m.AuthorID, m.Content).Scan(&m.CreatedAt); err != nil {
		return MailEntry{}, err
	}
	return m, nil
}

// List returns all mail entries, most recent first.
func (r *Mail) List(ctx context.Context) ([]MailEntry, error) {
	query := `SELECT m.id, m.author_id, u.username, m.content, m.created_at
		FROM mail m
		JOIN users u ON u.id = m.author_id
		ORDER BY m.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []MailEntry{}
	for rows.Next() {
		var m MailEntry
		if err := rows.Scan(&m.ID, &m.AuthorID, &m.AuthorUsername, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, m)
	}
	return entries, rows.Err()
}
