// ABOUTME: Shared test setup for store tests
// ABOUTME: Creates a temporary SQLite store per test

package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// newTestUser builds a user record with a unique email and the diner role.
func newTestUser(t *testing.T) *User {
	t.Helper()
	id := uuid.New().String()
	return &User{
		ID:           id,
		Name:         "pizza diner",
		Email:        id + "@test.com",
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		Roles:        []Role{RoleDiner},
	}
}
