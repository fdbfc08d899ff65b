// ABOUTME: Registration, login, logout, and profile update flows
// ABOUTME: Orchestrates the credential store, token codec, and session registry

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshslice/orderd/internal/session"
	"github.com/freshslice/orderd/internal/store"
	"github.com/freshslice/orderd/internal/token"
)

// dummyHash is compared against when no account matches, so a login attempt
// costs the same whether or not the email exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CredentialStore is the persistence surface the auth flows need.
// *store.SQLiteStore satisfies it. User records are never cached across
// requests; the store is treated as synchronous and authoritative.
type CredentialStore interface {
	AddUser(ctx context.Context, user *store.User) error
	GetUser(ctx context.Context, id string) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	UpdateUser(ctx context.Context, id, email, passwordHash string) (*store.User, error)
}

// TokenMinter mints signed tokens for authenticated identities.
// *token.Codec satisfies it.
type TokenMinter interface {
	Mint(userID string, roles []store.Role) (string, error)
	TTL() time.Duration
}

// Service implements the registration and login flows.
type Service struct {
	users    CredentialStore
	minter   TokenMinter
	sessions session.Registry
	logger   *slog.Logger
}

// NewService creates the auth service over its collaborators.
func NewService(users CredentialStore, minter TokenMinter, sessions session.Registry) *Service {
	return &Service{
		users:    users,
		minter:   minter,
		sessions: sessions,
		logger:   slog.Default().With("component", "auth"),
	}
}

// Register creates a new user with the diner role and an active session.
// All three fields are required. Returns the stored user and the minted token.
func (s *Service) Register(ctx context.Context, name, email, password string) (*store.User, string, error) {
	if name == "" {
		return nil, "", &ValidationError{Field: "name"}
	}
	if email == "" {
		return nil, "", &ValidationError{Field: "email"}
	}
	if password == "" {
		return nil, "", &ValidationError{Field: "password"}
	}

	return s.createUser(ctx, name, email, password, []store.Role{store.RoleDiner})
}

// CreateUser creates a user with an explicit role set and an active session.
// Used by the bootstrap command to mint the initial admin.
func (s *Service) CreateUser(ctx context.Context, name, email, password string, roles []store.Role) (*store.User, string, error) {
	return s.createUser(ctx, name, email, password, roles)
}

func (s *Service) createUser(ctx context.Context, name, email, password string, roles []store.Role) (*store.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user := &store.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
	}
	if err := s.users.AddUser(ctx, user); err != nil {
		return nil, "", err
	}

	tok, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("registered user", "user_id", user.ID)
	return user, tok, nil
}

// Login authenticates an email/password pair and issues a new session.
// Unknown email and wrong password produce the same ErrUnauthorized; a user
// may hold any number of concurrent sessions.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	if email == "" {
		return nil, "", &ValidationError{Field: "email"}
	}
	if password == "" {
		return nil, "", &ValidationError{Field: "password"}
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Dummy comparison keeps timing constant for unknown emails
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, "", ErrUnauthorized
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("password mismatch", "user_id", user.ID)
		return nil, "", ErrUnauthorized
	}

	tok, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, tok, nil
}

// Logout revokes the bearer token supplied on the request. An unknown or
// already-revoked token reports the same ErrUnauthorized any other
// invalid-token call would see.
func (s *Service) Logout(ctx context.Context, headerValue string) error {
	raw := ExtractBearerToken(headerValue)
	if raw == "" {
		return ErrUnauthorized
	}

	err := s.sessions.Revoke(ctx, raw)
	if errors.Is(err, session.ErrNotFound) {
		return ErrUnauthorized
	}
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}

	s.logger.Info("user logged out")
	return nil
}

// UpdateUser changes a user's email and/or password. Authorization against
// the target user is the caller's responsibility; the new password takes
// effect on next login and live sessions are left untouched.
func (s *Service) UpdateUser(ctx context.Context, id, email, password string) (*store.User, error) {
	var hash string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		hash = string(h)
	}

	user, err := s.users.UpdateUser(ctx, id, email, hash)
	if err != nil {
		return nil, err
	}

	s.logger.Info("updated user", "user_id", id)
	return user, nil
}

// issueSession mints a token for the user's current roles and activates it.
func (s *Service) issueSession(ctx context.Context, user *store.User) (string, error) {
	tok, err := s.minter.Mint(user.ID, user.Roles)
	if err != nil {
		return "", fmt.Errorf("minting token: %w", err)
	}

	if err := s.sessions.Activate(ctx, tok, user.ID, time.Now().Add(s.minter.TTL())); err != nil {
		return "", fmt.Errorf("activating session: %w", err)
	}

	return tok, nil
}

var _ TokenMinter = (*token.Codec)(nil)
