package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FollowCounts aggregates one user's follower and following totals.
type FollowCounts struct {
	Followers int `json:"followersCount"`
	Following int `json:"followingCount"`
}

// UserSummary is the public slice of an account shown in follow listings.
type UserSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AvatarKey string    `json:"avatar,omitempty"`
	FollowedAt time.Time `json:"followedAt"`
}

// Follows persists directed follow relationships between users.
type Follows struct {
	pool *pgxpool.Pool
}

// NewFollows creates a new Follows repository.
func NewFollows(pool *pgxpool.Pool) *Follows {
	return &Follows{pool: pool}
}

// Toggle creates the (follower, following) relationship if absent and removes
// it if present, returning the resulting state. A concurrent duplicate insert
// resolves through the unique pair constraint as "already following".
func (r *Follows) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	var existingID string
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID,
	).Scan(&existingID)

	switch {
	case err == nil:
		if _, err := r.pool.Exec(ctx, `DELETE FROM follows WHERE id = $1`, existingID); err != nil {
			return false, err
		}
		return false, nil

	case errors.Is(err, pgx.ErrNoRows):
		_, err := r.pool.Exec(ctx,
			`INSERT INTO follows (id, follower_id, following_id) VALUES ($1, $2, $3)`,
			uuid.New().String(), followerID, followingID,
		)
		if err != nil && !IsUniqueViolation(err) {
			return false, err
		}
		return true, nil

	default:
		return false, err
	}
}

// Counts returns the follower and following totals for one user.
func (r *Follows) Counts(ctx context.Context, userID string) (FollowCounts, error) {
	var c FollowCounts
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT count(*) FROM follows WHERE following_id = $1),
			(SELECT count(*) FROM follows WHERE follower_id = $1)`,
		userID,
	).Scan(&c.Followers, &c.Following)
	return c, err
}

// ListFollowing returns a page of the users that userID follows, newest first.
func (r *Follows) ListFollowing(ctx context.Context, userID string, page, limit int) ([]UserSummary, int, error) {
	query := `SELECT u.id, u.username, u.avatar_key, f.created_at
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $3
		ORDER BY f.created_at DESC LIMIT $1 OFFSET $2`

	return r.listPeers(ctx, query, `SELECT count(*) FROM follows WHERE follower_id = $1`, userID, page, limit)
}

// ListFollowers returns a page of the users following userID, newest first.
func (r *Follows) ListFollowers(ctx context.Context, userID string, page, limit int) ([]UserSummary, int, error) {
	query := `SELECT u.id, u.username, u.avatar_key, f.created_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $3
		ORDER BY f.created_at DESC LIMIT $1 OFFSET $2`

	return r.listPeers(ctx, query, `SELECT count(*) FROM follows WHERE following_id = $1`, userID, page, limit)
}

func (r *Follows) listPeers(ctx context.Context, query, countQuery, userID string, page, limit int) ([]UserSummary, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	rows, err := r.pool.Query(ctx, query, limit, offset, userID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []UserSummary{}
	for rows.Next() {
		var u UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.AvatarKey, &u.FollowedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
