// ABOUTME: Session store methods tracking which bearer tokens are currently active
// ABOUTME: Keyed strictly by token so a user can hold many concurrent sessions

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ActivateSession records a token as active for a user. Called once per
// successful login or registration.
func (s *SQLiteStore) ActivateSession(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`,
		token,
		userID,
		time.Now().UTC().Format(time.RFC3339),
		expiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("activating session: %w", err)
	}

	s.logger.Debug("session activated", "user_id", userID)
	return nil
}

// RevokeSession deletes a session by token. Returns ErrNotFound if the token
// was never active or has already been revoked, so callers can distinguish
// "already logged out" from "logout happened."
func (s *SQLiteStore) RevokeSession(ctx context.Context, token string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking revoke result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("session revoked")
	return nil
}

// SessionActive reports whether a token is currently active. Returns false
// for unknown tokens (not an error).
func (s *SQLiteStore) SessionActive(ctx context.Context, token string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE token = ?`, token).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking session: %w", err)
	}

	return true, nil
}

// DeleteExpiredSessions removes sessions whose expiry has passed. Expired
// tokens are already rejected at the codec layer; this keeps the table from
// growing without bound.
func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking cleanup result: %w", err)
	}

	if deleted > 0 {
		s.logger.Debug("deleted expired sessions", "count", deleted)
	}
	return deleted, nil
}

// CountActiveSessions returns the number of unexpired sessions on record.
// Expired rows are excluded even before the sweeper removes them.
func (s *SQLiteStore) CountActiveSessions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE expires_at >= ?`,
		time.Now().UTC().Format(time.RFC3339)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return count, nil
}
