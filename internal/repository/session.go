package repository

import (
	"context"
	"fmt"

	"github.com/vinped/vinped/internal/model"
)

// CreateSession persists one session row. Multiple concurrent rows per
// user are valid; no uniqueness is enforced beyond the token itself.
func (r *Repository) CreateSession(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		session.ExpiresAt,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// RevokeSession deletes the session matching the exact token value.
// Idempotent: revoking an absent token is a no-op, not an error.
func (r *Repository) RevokeSession(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`

	if _, err := r.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// SessionExists reports whether an unexpired session row exists for the
// token. Used by the auth gate when session checking is enabled.
func (r *Repository) SessionExists(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM sessions WHERE token = $1 AND expires_at > NOW())`

	var exists bool
	if err := r.db.QueryRow(ctx, query, token).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}

	return exists, nil
}

// DeleteExpiredSessions removes sessions past their expiry and returns
// the number of rows deleted. There is no background sweep; callers run
// this opportunistically.
func (r *Repository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= NOW()`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
