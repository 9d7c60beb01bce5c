package store

import (
	"context"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// toggleLike flips userID's membership in the likes array of one row in table.
// The read and write run in a transaction with the row locked, so two
// overlapping toggles cannot drop each other's change.
func toggleLike(ctx context.Context, pool *pgxpool.Pool, table, id, userID string) (bool, int, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, 0, err
	}
	defer tx.Rollback(ctx)

	var likes []string
	err = tx.QueryRow(ctx, `SELECT likes FROM `+table+` WHERE id = $1 FOR UPDATE`, id).Scan(&likes)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, 0, ErrNotFound
		}
		return false, 0, err
	}

	liked := !slices.Contains(likes, userID)
	if liked {
		likes = append(likes, userID)
	} else {
		likes = slices.DeleteFunc(likes, func(v string) bool { return v == userID })
	}

	if _, err := tx.Exec(ctx, `UPDATE `+table+` SET likes = $2, updated_at = now() WHERE id = $1`, id, likes); err != nil {
		return false, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return liked, len(likes), nil
}
