package store

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookRef is the denormalized book subrecord embedded in book-scoped posts.
type BookRef struct {
	BookKey  string `json:"bookKey"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"coverUrl,omitempty"`
}

// Review is a rated book review. One review per (author, book).
type Review struct {
	ID              string    `json:"id"`
	AuthorID        string    `json:"authorId"`
	AuthorUsername  string    `json:"authorUsername"`
	AuthorAvatarKey string    `json:"authorAvatar,omitempty"`
	Book            BookRef   `json:"book"`
	Content         string    `json:"content"`
	Rating          float64   `json:"rating"`
	ContainsSpoiler bool      `json:"containsSpoiler"`
	LikesCount      int       `json:"likesCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	likes []string
}

// IsLikedBy reports whether userID is in the review's like list.
func (r Review) IsLikedBy(userID string) bool {
	return slices.Contains(r.likes, userID)
}

// Reviews persists book reviews.
type Reviews struct {
	pool *pgxpool.Pool
}

// NewReviews creates a new Reviews repository.
func NewReviews(pool *pgxpool.Pool) *Reviews {
	return &Reviews{pool: pool}
}

const reviewSelect = `SELECT r.id, r.author_id, u.username, u.avatar_key,
		r.book_key, r.book_title, r.book_author, r.book_cover_url,
		r.content, r.rating, r.contains_spoiler, r.likes, r.created_at, r.updated_at
	FROM reviews r
	JOIN users u ON u.id = r.author_id`

func scanReview(row interface{ Scan(dest ...any) error }) (Review, error) {
	var rv Review
	err := row.Scan(
		&rv.ID, &rv.AuthorID, &rv.AuthorUsername, &rv.AuthorAvatarKey,
		&rv.Book.BookKey, &rv.Book.Title, &rv.Book.Author, &rv.Book.CoverURL,
		&rv.Content, &rv.Rating, &rv.ContainsSpoiler, &rv.likes, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		return Review{}, err
	}
	rv.LikesCount = len(rv.likes)
	return rv, nil
}

// Create inserts a new review. A unique violation on (author, book) means the
// author already reviewed this book; callers detect it with IsUniqueViolation.
func (r *Reviews) Create(ctx context.Context, rv Review) (Review, error) {
	rv.ID = uuid.New().String()

	query := `INSERT INTO reviews (id, author_id, book_key, book_title, book_author, book_cover_url,
			content, rating, contains_spoiler)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		rv.ID, rv.AuthorID, rv.Book.BookKey, rv.Book.Title, rv.Book.Author, rv.Book.CoverURL,
		rv.Content, rv.Rating, rv.ContainsSpoiler,
	).Scan(&rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return Review{}, err
	}
	return rv, nil
}

// Get retrieves one review by id.
func (r *Reviews) Get(ctx context.Context, id string) (Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx, reviewSelect+` WHERE r.id = $1`, id))
	if err != nil {
		return Review{}, notFoundOr(err)
	}
	return rv, nil
}

// List returns a page of reviews, newest first, together with the total count.
func (r *Reviews) List(ctx context.Context, page, limit int) ([]Review, int, error) {
	return r.list(ctx, reviewSelect+` ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`,
		`SELECT count(*) FROM reviews`, page, limit)
}

// ListByBook returns a page of reviews for one book, newest first.
func (r *Reviews) ListByBook(ctx context.Context, bookKey string, page, limit int) ([]Review, int, error) {
	return r.list(ctx, reviewSelect+` WHERE r.book_key = $3 ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`,
		`SELECT count(*) FROM reviews WHERE book_key = $1`, page, limit, bookKey)
}

// ListByAuthor returns a page of one author's reviews, newest first.
func (r *Reviews) ListByAuthor(ctx context.Context, authorID string, page, limit int) ([]Review, int, error) {
	return r.list(ctx, reviewSelect+` WHERE r.author_id = $3 ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`,
		`SELECT count(*) FROM reviews WHERE author_id = $1`, page, limit, authorID)
}

func (r *Reviews) list(ctx context.Context, query, countQuery string, page, limit int, filter ...any) ([]Review, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	args := append([]any{limit, offset}, filter...)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, filter...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Update persists the mutable fields of an existing review.
func (r *Reviews) Update(ctx context.Context, id, content string, rating float64, containsSpoiler bool) error {
	query := `UPDATE reviews SET content = $2, rating = $3, contains_spoiler = $4, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, content, rating, containsSpoiler)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a review.
func (r *Reviews) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleLike adds userID to the review's like list, or removes it when already
// present. It returns the new liked state and like count.
func (r *Reviews) ToggleLike(ctx context.Context, id, userID string) (bool, int, error) {
	return toggleLike(ctx, r.pool, "reviews", id, userID)
}
