package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Favorite marks one book as a favorite of one user.
type Favorite struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	BookKey          string    `json:"bookKey"`
	Title            string    `json:"title"`
	Author           string    `json:"author"`
	FirstPublishYear *int      `json:"firstPublishYear"`
	CoverID          *int64    `json:"coverId"`
	CoverURL         string    `json:"coverUrl,omitempty"`
	CreatedAt        time.Time `json:"addedAt"`
}

// Favorites persists per-user favorite books.
type Favorites struct {
	pool *pgxpool.Pool
}

// NewFavorites creates a new Favorites repository.
func NewFavorites(pool *pgxpool.Pool) *Favorites {
	return &Favorites{pool: pool}
}

// Add inserts a favorite. A unique violation on (user, book) means the book is
// already favorited; callers detect it with IsUniqueViolation.
func (r *Favorites) Add(ctx context.Context, f Favorite) (Favorite, error) {
	f.ID = uuid.New().String()

	query := `INSERT INTO favorites (id, user_id, book_key, title, author, first_publish_year, cover_id, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		f.ID, f.UserID, f.BookKey, f.Title, f.Author, f.FirstPublishYear, f.CoverID, f.CoverURL,
	).Scan(&f.CreatedAt)
	if err != nil {
		return Favorite{}, err
	}
	return f, nil
}

// Remove deletes the favorite for (userID, bookKey).
func (r *Favorites) Remove(ctx context.Context, userID, bookKey string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND book_key = $2`, userID, bookKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns all of one user's favorites, most recently added first.
func (r *Favorites) ListByUser(ctx context.Context, userID string) ([]Favorite, error) {
	query := `SELECT id, user_id, book_key, title, author, first_publish_year, cover_id, cover_url, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := []Favorite{}
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.BookKey, &f.Title, &f.Author,
			&f.FirstPublishYear, &f.CoverID, &f.CoverURL, &f.CreatedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}
