// ABOUTME: Tests for registration, login, logout, and profile update flows
// ABOUTME: Runs against a real SQLite store with the store-backed registry

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshslice/orderd/internal/session"
	"github.com/freshslice/orderd/internal/store"
	"github.com/freshslice/orderd/internal/token"
)

type testAuth struct {
	service  *Service
	gate     *Gate
	store    *store.SQLiteStore
	registry session.Registry
}

func setupTestAuth(t *testing.T) *testAuth {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "auth.db")
	sqlStore, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { sqlStore.Close() })

	codec, err := token.NewCodec([]byte("test-secret-key-for-jwt-signing"), time.Hour)
	require.NoError(t, err)

	registry := session.NewStoreRegistry(sqlStore)
	return &testAuth{
		service:  NewService(sqlStore, codec, registry),
		gate:     NewGate(codec, registry),
		store:    sqlStore,
		registry: registry,
	}
}

func TestService_Register(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	user, tok, err := ta.service.Register(ctx, "pizza diner", "reg@test.com", "a")
	require.NoError(t, err)
	assert.Regexp(t, `^[a-zA-Z0-9\-_]*\.[a-zA-Z0-9\-_]*\.[a-zA-Z0-9\-_]*$`, tok)
	assert.Equal(t, []store.Role{store.RoleDiner}, user.Roles)
	assert.NotEqual(t, "a", user.PasswordHash, "password must be stored hashed")

	// The minted token authenticates immediately and carries the same identity
	identity, err := ta.gate.Authenticate(ctx, "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, user.Roles, identity.Roles)
}

func TestService_Register_MissingFields(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{name: "missing name", userName: "", email: "reg@test.com", password: "a"},
		{name: "missing email", userName: "pizza diner", email: "", password: "a"},
		{name: "missing password", userName: "pizza diner", email: "reg@test.com", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ta.service.Register(ctx, tt.userName, tt.email, tt.password)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	_, _, err := ta.service.Register(ctx, "pizza diner", "reg@test.com", "a")
	require.NoError(t, err)

	_, _, err = ta.service.Register(ctx, "second diner", "reg@test.com", "b")
	assert.ErrorIs(t, err, store.ErrEmailTaken)
}

func TestService_Login(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	registered, _, err := ta.service.Register(ctx, "pizza diner", "reg@test.com", "a")
	require.NoError(t, err)

	user, tok, err := ta.service.Login(ctx, "reg@test.com", "a")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, []store.Role{store.RoleDiner}, user.Roles)

	identity, err := ta.gate.Authenticate(ctx, "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
}

func TestService_Login_WrongPassword(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	_, _, err := ta.service.Register(ctx, "pizza diner", "reg@test.com", "a")
	require.NoError(t, err)

	_, _, err = ta.service.Login(ctx, "reg@test.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	_, _, err := ta.service.Login(ctx, "nobody@test.com", "a")
	assert.ErrorIs(t, err, ErrUnauthorized, "unknown email must be indistinguishable from wrong password")
}

func TestService_Login_ConcurrentSessions(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	_, regTok, err := ta.service.Register(ctx, "pizza diner", "reg@test.com", "a")
	require.NoError(t, err)

	_, loginTok, err := ta.service.Login(ctx, "reg@test.com", "a")
	require.NoError(t, err)

	// Both tokens authenticate independently
	_, err = ta.gate.Authenticate(ctx, "Bearer "+regTok)
	require.NoError(t, err)
	_, err = ta.gate.Authenticate(ctx, "Bearer "+loginTok)
	require.NoError(t, err)

	// Logging out one leaves the other usable
	require.NoError(t, ta.service.Logout(ctx, "Bearer "+regTok))

	_, err = ta.gate.Authenticate(ctx, "Bearer "+regTok)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = ta.gate.Authenticate(ctx, "Bearer "+loginTok)
	require.NoError(t, err)
}

func TestService_Logout(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	_, tok, err := ta.service.Register(ctx, "pizza diner", "reg@test.com", "a")
	require.NoError(t, err)

	require.NoError(t, ta.service.Logout(ctx, "Bearer "+tok))

	// The token stays structurally valid and unexpired but no longer authenticates
	_, err = ta.gate.Authenticate(ctx, "Bearer "+tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestService_Logout_InvalidToken(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	assert.ErrorIs(t, ta.service.Logout(ctx, "Bearer invalid_token"), ErrUnauthorized)
	assert.ErrorIs(t, ta.service.Logout(ctx, ""), ErrUnauthorized)
}

func TestService_Logout_Twice(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	_, tok, err := ta.service.Register(ctx, "pizza diner", "reg@test.com", "a")
	require.NoError(t, err)

	require.NoError(t, ta.service.Logout(ctx, "Bearer "+tok))
	assert.ErrorIs(t, ta.service.Logout(ctx, "Bearer "+tok), ErrUnauthorized)
}

func TestService_UpdateUser(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	user, _, err := ta.service.Register(ctx, "pizza diner", "reg@test.com", "a")
	require.NoError(t, err)

	updated, err := ta.service.UpdateUser(ctx, user.ID, "updated@test.com", "123243b")
	require.NoError(t, err)
	assert.Equal(t, "updated@test.com", updated.Email)

	// Old password no longer works; new one does
	_, _, err = ta.service.Login(ctx, "updated@test.com", "a")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = ta.service.Login(ctx, "updated@test.com", "123243b")
	require.NoError(t, err)
}

func TestService_UpdateUser_LeavesSessionsAlive(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	user, tok, err := ta.service.Register(ctx, "pizza diner", "reg@test.com", "a")
	require.NoError(t, err)

	_, err = ta.service.UpdateUser(ctx, user.ID, "", "rotated")
	require.NoError(t, err)

	// A credential change takes effect on next login; live tokens survive
	// unless explicitly revoked
	_, err = ta.gate.Authenticate(ctx, "Bearer "+tok)
	require.NoError(t, err)
}

func TestService_CreateUser_AdminBootstrap(t *testing.T) {
	ta := setupTestAuth(t)
	ctx := context.Background()

	admin, tok, err := ta.service.CreateUser(ctx, "boss", "boss@admin.com", "toomanysecrets", []store.Role{store.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, []store.Role{store.RoleAdmin}, admin.Roles)

	identity, err := ta.gate.Authenticate(ctx, "Bearer "+tok)
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())
}
