// ABOUTME: JWT minting and verification for bearer session tokens
// ABOUTME: Uses HS256 signing with a process-wide secret held for the process lifetime

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/freshslice/orderd/internal/store"
)

// Token errors. Parse failures are reported with one of these sentinels so
// callers can log the reason; at the request boundary they all collapse into
// a single unauthorized outcome.
var (
	ErrMalformed    = errors.New("malformed token")
	ErrBadSignature = errors.New("bad token signature")
	ErrExpired      = errors.New("token expired")
)

// DefaultTTL is the session token lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// Claims is the identity payload embedded in a minted token.
type Claims struct {
	UserID string       `json:"uid"`
	Roles  []store.Role `json:"roles"`
	jwt.RegisteredClaims
}

// Codec mints and parses signed session tokens. Verification is stateless;
// revocation is layered on top by the session registry.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec signing with the given secret. A non-positive ttl
// falls back to DefaultTTL.
func NewCodec(secret []byte, ttl time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: secret, ttl: ttl}, nil
}

// Mint produces a signed token embedding the user id, role set, and expiry.
// Fails only if signing itself fails.
func (c *Codec) Mint(userID string, roles []store.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature integrity and expiration and returns the embedded
// claims. Returns ErrMalformed, ErrBadSignature, or ErrExpired on rejection.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	tok, err := parser.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrMalformed
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing uid claim", ErrMalformed)
	}

	return claims, nil
}

// TTL returns the lifetime applied to minted tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}
