// ABOUTME: In-memory session registry for tests and single-process deployments
// ABOUTME: A mutex-guarded map; reads never observe a half-written entry

package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

// MemoryRegistry implements Registry with an in-process map. Safe for
// unbounded concurrent use.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]memoryEntry),
	}
}

// Activate records a token as valid for a user.
func (r *MemoryRegistry) Activate(ctx context.Context, token, userID string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = memoryEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

// Revoke invalidates a token. Returns ErrNotFound for unknown or
// already-revoked tokens.
func (r *MemoryRegistry) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[token]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, token)
	return nil
}

// IsActive reports whether a token is currently valid.
func (r *MemoryRegistry) IsActive(ctx context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[token]
	return ok, nil
}

// Len returns the number of active sessions.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
