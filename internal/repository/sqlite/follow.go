package sqlite

import (
	"context"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/yatube/internal/repository"
)

var _ repository.FollowRepository = (*DB)(nil)

// Follow creates the userID → authorID edge unless it already exists.
//
// ON CONFLICT DO NOTHING makes the insert a single atomic get-or-create:
// two concurrent follows of the same author still leave one row.
// RowsAffected tells the caller which branch was taken.
func (db *DB) Follow(ctx context.Context, userID, authorID string) (bool, error) {
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO follows (id, user_id, author_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, author_id) DO NOTHING`,
		xid.New().String(),
		userID,
		authorID,
		db.now(),
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: following %s -> %s: %w", userID, authorID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return n > 0, nil
}

// Unfollow deletes the edge if present. Nothing to delete is not an error.
func (db *DB) Unfollow(ctx context.Context, userID, authorID string) (bool, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM follows WHERE user_id = ? AND author_id = ?`,
		userID, authorID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: unfollowing %s -> %s: %w", userID, authorID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return n > 0, nil
}

func (db *DB) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	var exists bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE user_id = ? AND author_id = ?)`,
		userID, authorID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking follow %s -> %s: %w", userID, authorID, err)
	}
	return exists, nil
}
