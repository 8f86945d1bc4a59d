package sqlite

import (
	"context"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/store"
)

type slugsRepo struct {
	db dbtx
}

func (r *slugsRepo) AllocateSlug(ctx context.Context, slug, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO slugs (slug, user_id, created_at)
		VALUES (?, ?, ?)`,
		slug, userID, time.Now().UTC(),
	)
	return mapConflict(err)
}

func (r *slugsRepo) ResolveSlug(ctx context.Context, slug string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id FROM slugs
		WHERE slug = ? AND retired_at IS NULL AND user_id IS NOT NULL`,
		slug,
	).Scan(&userID)
	if err != nil {
		return "", mapNotFound(err)
	}
	return userID, nil
}

func (r *slugsRepo) RetireSlug(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE slugs SET retired_at = ?
		WHERE user_id = ? AND retired_at IS NULL`,
		time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
