// ABOUTME: Session registry tracking which issued tokens are currently valid
// ABOUTME: The single source of truth for "is this bearer token still usable"

package session

import (
	"context"
	"errors"
	"time"

	"github.com/freshslice/orderd/internal/store"
)

// ErrNotFound is returned by Revoke for tokens that were never activated or
// have already been revoked, so callers can distinguish "already logged out"
// from "logout happened."
var ErrNotFound = errors.New("session not found")

// Registry tracks active sessions keyed strictly by token. A user may hold
// many concurrent sessions; revoking one never affects the others, and role
// changes never implicitly revoke live tokens.
type Registry interface {
	// Activate records a token as valid for a user. Called once per
	// successful login or registration.
	Activate(ctx context.Context, token, userID string, expiresAt time.Time) error

	// Revoke invalidates a token. Returns ErrNotFound for unknown or
	// already-revoked tokens.
	Revoke(ctx context.Context, token string) error

	// IsActive reports whether a token is currently valid. The hot-path
	// read performed on every authenticated request.
	IsActive(ctx context.Context, token string) (bool, error)
}

// SessionStore is the persistence surface the store-backed registry needs.
// *store.SQLiteStore satisfies it.
type SessionStore interface {
	ActivateSession(ctx context.Context, token, userID string, expiresAt time.Time) error
	RevokeSession(ctx context.Context, token string) error
	SessionActive(ctx context.Context, token string) (bool, error)
}

// StoreRegistry implements Registry on top of the SQLite session table.
type StoreRegistry struct {
	sessions SessionStore
}

// NewStoreRegistry creates a registry backed by the given session store.
func NewStoreRegistry(sessions SessionStore) *StoreRegistry {
	return &StoreRegistry{sessions: sessions}
}

// Activate records a token as valid for a user.
func (r *StoreRegistry) Activate(ctx context.Context, token, userID string, expiresAt time.Time) error {
	return r.sessions.ActivateSession(ctx, token, userID, expiresAt)
}

// Revoke invalidates a token, mapping the store's not-found to ErrNotFound.
func (r *StoreRegistry) Revoke(ctx context.Context, token string) error {
	err := r.sessions.RevokeSession(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// IsActive reports whether a token is currently valid.
func (r *StoreRegistry) IsActive(ctx context.Context, token string) (bool, error) {
	return r.sessions.SessionActive(ctx, token)
}
