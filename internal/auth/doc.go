// Package auth provides authentication for orderd.
//
// # Request Authentication
//
// Gate is the per-request entry point. It extracts the bearer token from the
// Authorization header, verifies it with the token codec, and checks the
// session registry. The ordering is fixed: structural, signature, and expiry
// failures short-circuit before any registry lookup, since a malformed token
// carries no reliable key to look up. Every failure collapses to
// ErrUnauthorized at this boundary; the distinct parse reasons are logged
// internally and never leak as different HTTP-visible behavior.
//
// # Flows
//
// Service implements registration, login, logout, and profile updates:
//
//   - Register hashes the password with bcrypt, stores the user with the
//     diner role, then mints and activates a session token.
//   - Login compares against the stored hash, with a dummy comparison for
//     unknown emails so the two failure modes cannot be told apart.
//   - Logout revokes the presented token; revoking an unknown token reports
//     the same unauthorized outcome any invalid-token call would.
//
// # Middleware
//
// RequireAuth and OptionalAuth wrap HTTP handlers, placing the Identity in
// the request context via WithIdentity/FromContext.
package auth
