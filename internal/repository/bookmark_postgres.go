package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ag3-team/ag3-api/internal/model"
)

type PostgresBookmarkRepository struct {
	db *sqlx.DB
}

func NewPostgresBookmark(db *sqlx.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) Add(ctx context.Context, userID, postID string) (int64, error) {
	uid, pid, err := parseBookmarkIDs(userID, postID)
	if err != nil {
		return 0, err
	}

	var count int64
	err = withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, uid, pid)
		if err != nil {
			return translatePQError(err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return ErrDuplicateBookmark
		}
		return tx.GetContext(ctx, &count, `SELECT count(*) FROM bookmarks WHERE post_id = $1`, pid)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add bookmark: %w", err)
	}
	return count, nil
}

func (r *PostgresBookmarkRepository) Remove(ctx context.Context, userID, postID string) (int64, error) {
	uid, pid, err := parseBookmarkIDs(userID, postID)
	if err != nil {
		return 0, err
	}

	var count int64
	err = withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, uid, pid)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return ErrNotFound
		}
		return tx.GetContext(ctx, &count, `SELECT count(*) FROM bookmarks WHERE post_id = $1`, pid)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return count, nil
}

func (r *PostgresBookmarkRepository) List(ctx context.Context, params model.BookmarkListParams) ([]model.Post, error) {
	uid, err := parseID(params.UserID)
	if err != nil {
		return []model.Post{}, nil
	}

	query := `
		SELECT ` + postColumns + `
		FROM bookmarks b
		JOIN posts p ON p.id = b.post_id
		JOIN users u ON u.id = p.author_id
		WHERE b.user_id = $1 AND ($2 = '' OR p.category = $2)
		ORDER BY b.created_at DESC, p.id DESC
		LIMIT $3 OFFSET $4`

	var rows []postRow
	err = r.db.SelectContext(ctx, &rows, query, uid, string(params.Category), params.Page.Limit(), params.Page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return toPosts(rows), nil
}

func parseBookmarkIDs(userID, postID string) (string, string, error) {
	uid, err := parseID(userID)
	if err != nil {
		return "", "", err
	}
	pid, err := parseID(postID)
	if err != nil {
		return "", "", err
	}
	return uid, pid, nil
}

var _ BookmarkRepository = (*PostgresBookmarkRepository)(nil)
