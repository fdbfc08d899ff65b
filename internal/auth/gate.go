// ABOUTME: Per-request authentication gate resolving bearer tokens to identities
// ABOUTME: Codec rejection short-circuits before any registry lookup

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/freshslice/orderd/internal/session"
	"github.com/freshslice/orderd/internal/token"
)

// TokenParser verifies a raw token string and returns its embedded claims.
// *token.Codec satisfies it.
type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

// Gate authenticates inbound requests. Stateless per call; safe for
// unbounded concurrent use.
type Gate struct {
	parser   TokenParser
	sessions session.Registry
	logger   *slog.Logger
}

// NewGate creates an authentication gate over the given codec and registry.
func NewGate(parser TokenParser, sessions session.Registry) *Gate {
	return &Gate{
		parser:   parser,
		sessions: sessions,
		logger:   slog.Default().With("component", "auth"),
	}
}

// ExtractBearerToken extracts a bearer token from an Authorization header
// value. Returns an empty string if no usable token is present.
func ExtractBearerToken(headerValue string) string {
	if !strings.HasPrefix(headerValue, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(headerValue, "Bearer "))
}

// Authenticate resolves a raw Authorization header value to an identity.
// Every failure collapses to ErrUnauthorized; the distinct parse reasons are
// logged but never surfaced. A malformed token carries no reliable key, so
// parsing always happens before the registry lookup.
func (g *Gate) Authenticate(ctx context.Context, headerValue string) (*Identity, error) {
	raw := ExtractBearerToken(headerValue)
	if raw == "" {
		return nil, ErrUnauthorized
	}

	claims, err := g.parser.Parse(raw)
	if err != nil {
		g.logger.Debug("token rejected", "reason", err)
		return nil, ErrUnauthorized
	}

	active, err := g.sessions.IsActive(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("checking session: %w", err)
	}
	if !active {
		g.logger.Debug("token revoked or never activated", "user_id", claims.UserID)
		return nil, ErrUnauthorized
	}

	return &Identity{UserID: claims.UserID, Roles: claims.Roles}, nil
}
