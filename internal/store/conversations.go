package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSelfConversation is returned when both participants of a pair are the same identity.
var ErrSelfConversation = errors.New("store: conversation participants must differ")

// Conversation pairs exactly two participants for directed messaging. The
// participant pair is stored sorted so lookup is order-independent, and the
// last-message fields are denormalized copies refreshed on every append.
type Conversation struct {
	ID            string     `json:"id"`
	ParticipantA  string     `json:"-"`
	ParticipantB  string     `json:"-"`
	Members       [2]string  `json:"members"`
	LastMessage   string     `json:"lastMessage"`
	LastMessageAt *time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// HasParticipant reports whether username is one of the two members.
func (c Conversation) HasParticipant(username string) bool {
	return c.ParticipantA == username || c.ParticipantB == username
}

// NormalizePair trims both usernames and returns them in sorted order, so that
// (a, b) and (b, a) address the same conversation record.
func NormalizePair(a, b string) (string, string, error) {
	pair := []string{strings.TrimSpace(a), strings.TrimSpace(b)}
	sort.Strings(pair)

	if pair[0] == "" || pair[1] == "" {
		return "", "", errors.New("store: conversation participants must be non-empty")
	}
	if pair[0] == pair[1] {
		return "", "", ErrSelfConversation
	}

	return pair[0], pair[1], nil
}

// Conversations maps unordered participant pairs to canonical conversation records.
type Conversations struct {
	pool *pgxpool.Pool
}

// NewConversations creates a new Conversations repository.
func NewConversations(pool *pgxpool.Pool) *Conversations {
	return &Conversations{pool: pool}
}

const conversationColumns = `id, participant_a, participant_b, last_message, last_message_at, created_at, updated_at`

func scanConversation(row interface{ Scan(dest ...any) error }) (Conversation, error) {
	var c Conversation
	err := row.Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.LastMessage, &c.LastMessageAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Conversation{}, err
	}
	c.Members = [2]string{c.ParticipantA, c.ParticipantB}
	return c, nil
}

// FindOrCreate returns the canonical conversation for the unordered pair (a, b),
// creating it with empty last-message fields on first contact. The unique
// constraint on the sorted pair is the sole concurrency guard: if two callers
// race, the loser's insert fails with a unique violation and the winner's
// record is re-read and returned, so the race is never user-visible.
func (r *Conversations) FindOrCreate(ctx context.Context, a, b string) (Conversation, error) {
	pa, pb, err := NormalizePair(a, b)
	if err != nil {
		return Conversation{}, err
	}

	if conv, err := r.getByPair(ctx, pa, pb); err == nil {
		return conv, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Conversation{}, err
	}

	insert := `INSERT INTO conversations (id, participant_a, participant_b)
		VALUES ($1, $2, $3)
		RETURNING ` + conversationColumns

	conv, err := scanConversation(r.pool.QueryRow(ctx, insert, uuid.New().String(), pa, pb))
	if err == nil {
		return conv, nil
	}
	if IsUniqueViolation(err) {
		return r.getByPair(ctx, pa, pb)
	}
	return Conversation{}, err
}

func (r *Conversations) getByPair(ctx context.Context, pa, pb string) (Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE participant_a = $1 AND participant_b = $2`
	conv, err := scanConversation(r.pool.QueryRow(ctx, query, pa, pb))
	if err != nil {
		return Conversation{}, notFoundOr(err)
	}
	return conv, nil
}

// Get retrieves a conversation by its identifier.
func (r *Conversations) Get(ctx context.Context, id string) (Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`
	conv, err := scanConversation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return Conversation{}, notFoundOr(err)
	}
	return conv, nil
}

// ListForParticipant returns all conversations containing username, most
// recently active first (last message time, falling back to creation time).
func (r *Conversations) ListForParticipant(ctx context.Context, username string) ([]Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations
		WHERE participant_a = $1 OR participant_b = $1
		ORDER BY COALESCE(last_message_at, created_at) DESC`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	convs := []Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}
