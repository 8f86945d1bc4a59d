package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type revokedTokensRepo struct {
	db dbtx
}

func (r *revokedTokensRepo) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	// Revoking twice is a no-op, not a conflict.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at, revoked_at)
		VALUES (?, ?, ?)
		ON CONFLICT (jti) DO NOTHING`,
		jti, expiresAt.UTC(), time.Now().UTC(),
	)
	return err
}

func (r *revokedTokensRepo) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM revoked_tokens WHERE jti = ?`, jti,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *revokedTokensRepo) DeleteExpiredRevokedTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, time.Now().UTC(),
	)
	return err
}
