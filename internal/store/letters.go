package store

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Letter is a short free-form post not attached to any book.
type Letter struct {
	ID              string    `json:"id"`
	AuthorID        string    `json:"authorId"`
	AuthorUsername  string    `json:"authorUsername"`
	AuthorAvatarKey string    `json:"authorAvatar,omitempty"`
	Content         string    `json:"content"`
	LikesCount      int       `json:"likesCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	likes []string
}

// IsLikedBy reports whether userID is in the letter's like list.
func (l Letter) IsLikedBy(userID string) bool {
	return slices.Contains(l.likes, userID)
}

// Letters persists short posts.
type Letters struct {
	pool *pgxpool.Pool
}

// NewLetters creates a new Letters repository.
func NewLetters(pool *pgxpool.Pool) *Letters {
	return &Letters{pool: pool}
}

const letterSelect = `SELECT l.id, l.author_id, u.username, u.avatar_key,
		l.content, l.likes, l.created_at, l.updated_at
	FROM letters l
	JOIN users u ON u.id = l.author_id`

func scanLetter(row interface{ Scan(dest ...any) error }) (Letter, error) {
	var l Letter
	err := row.Scan(&l.ID, &l.AuthorID, &l.AuthorUsername, &l.AuthorAvatarKey,
		&l.Content, &l.likes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return Letter{}, err
	}
	l.LikesCount = len(l.likes)
	return l, nil
}

// Create inserts a new letter.
func (r *Letters) Create(ctx context.Context, l Letter) (Letter, error) {
	l.ID = uuid.New().String()

	query := `INSERT INTO letters (id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	if err := r.pool.QueryRow(ctx, query, l.ID, l.AuthorID, l.Content).Scan(&l.CreatedAt, &l.UpdatedAt); err != nil {
		return Letter{}, err
	}
	return l, nil
}

// Get retrieves one letter by id.
func (r *Letters) Get(ctx context.Context, id string) (Letter, error) {
	l, err := scanLetter(r.pool.QueryRow(ctx, letterSelect+` WHERE l.id = $1`, id))
	if err != nil {
		return Letter{}, notFoundOr(err)
	}
	return l, nil
}

// List returns a page of letters, newest first, together with the total count.
func (r *Letters) List(ctx context.Context, page, limit int) ([]Letter, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	rows, err := r.pool.Query(ctx, letterSelect+` ORDER BY l.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	letters := []Letter{}
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, 0, err
		}
		letters = append(letters, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM letters`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return letters, total, nil
}

// Delete removes a letter.
func (r *Letters) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM letters WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleLike adds userID to the letter's like list, or removes it when already
// present. It returns the new liked state and like count.
func (r *Letters) ToggleLike(ctx context.Context, id, userID string) (bool, int, error) {
	return toggleLike(ctx, r.pool, "letters", id, userID)
}
