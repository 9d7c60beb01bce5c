package store

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookPost is a book-scoped authored post: a deep dive (long form) or an
// excerpt (quoted passage). Both share the same shape and differ only in
// content limits and spoiler defaults, which the handlers own.
type BookPost struct {
	ID              string    `json:"id"`
	AuthorID        string    `json:"authorId"`
	AuthorUsername  string    `json:"authorUsername"`
	AuthorAvatarKey string    `json:"authorAvatar,omitempty"`
	Book            BookRef   `json:"book"`
	Content         string    `json:"content"`
	ContainsSpoiler bool      `json:"containsSpoiler"`
	LikesCount      int       `json:"likesCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	likes []string
}

// IsLikedBy reports whether userID is in the post's like list.
func (p BookPost) IsLikedBy(userID string) bool {
	return slices.Contains(p.likes, userID)
}

// BookPosts persists one kind of book-scoped post. The table name is fixed at
// construction time (deep_dives or excerpts).
type BookPosts struct {
	pool  *pgxpool.Pool
	table string
}

// NewDeepDives creates the repository for long-form deep dive posts.
func NewDeepDives(pool *pgxpool.Pool) *BookPosts {
	return &BookPosts{pool: pool, table: "deep_dives"}
}

// NewExcerpts creates the repository for book excerpt posts.
func NewExcerpts(pool *pgxpool.Pool) *BookPosts {
	return &BookPosts{pool: pool, table: "excerpts"}
}

func (r *BookPosts) selectClause() string {
	return `SELECT p.id, p.author_id, u.username, u.avatar_key,
			p.book_key, p.book_title, p.book_author, p.book_cover_url,
			p.content, p.contains_spoiler, p.likes, p.created_at, p.updated_at
		FROM ` + r.table + ` p
		JOIN users u ON u.id = p.author_id`
}

func scanBookPost(row interface{ Scan(dest ...any) error }) (BookPost, error) {
	var p BookPost
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.AuthorUsername, &p.AuthorAvatarKey,
		&p.Book.BookKey, &p.Book.Title, &p.Book.Author, &p.Book.CoverURL,
		&p.Content, &p.ContainsSpoiler, &p.likes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return BookPost{}, err
	}
	p.LikesCount = len(p.likes)
	return p, nil
}

// Create inserts a new post.
func (r *BookPosts) Create(ctx context.Context, p BookPost) (BookPost, error) {
	p.ID = uuid.New().String()

	query := `INSERT INTO ` + r.table + ` (id, author_id, book_key, book_title, book_author, book_cover_url,
			content, contains_spoiler)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.AuthorID, p.Book.BookKey, p.Book.Title, p.Book.Author, p.Book.CoverURL,
		p.Content, p.ContainsSpoiler,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return BookPost{}, err
	}
	return p, nil
}

// Get retrieves one post by id.
func (r *BookPosts) Get(ctx context.Context, id string) (BookPost, error) {
	p, err := scanBookPost(r.pool.QueryRow(ctx, r.selectClause()+` WHERE p.id = $1`, id))
	if err != nil {
		return BookPost{}, notFoundOr(err)
	}
	return p, nil
}

// List returns a page of posts, newest first, together with the total count.
func (r *BookPosts) List(ctx context.Context, page, limit int) ([]BookPost, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	rows, err := r.pool.Query(ctx, r.selectClause()+` ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []BookPost{}
	for rows.Next() {
		p, err := scanBookPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM `+r.table).Scan(&total); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Update persists the mutable fields of an existing post.
func (r *BookPosts) Update(ctx context.Context, id, content string, containsSpoiler bool) error {
	query := `UPDATE ` + r.table + ` SET content = $2, contains_spoiler = $3, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, content, containsSpoiler)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post.
func (r *BookPosts) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleLike adds userID to the post's like list, or removes it when already
// present. It returns the new liked state and like count.
func (r *BookPosts) ToggleLike(ctx context.Context, id, userID string) (bool, int, error) {
	return toggleLike(ctx, r.pool, r.table, id, userID)
}
