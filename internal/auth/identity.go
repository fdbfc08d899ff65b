// ABOUTME: Authenticated identity and its context propagation through handlers
// ABOUTME: Provides WithIdentity/FromContext for carrying auth info via context

package auth

import (
	"context"

	"github.com/freshslice/orderd/internal/store"
)

// Identity is the authenticated user id plus role set produced by a
// successful Authenticate call.
type Identity struct {
	UserID string
	Roles  []store.Role
}

// HasRole reports whether the identity carries the given role.
func (id *Identity) HasRole(role store.Role) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity carries the global admin role.
func (id *Identity) IsAdmin() bool {
	return id.HasRole(store.RoleAdmin)
}

// identityKey is the key type for storing an Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the Identity from the context, returning nil if not present.
func FromContext(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if val == nil {
		return nil
	}
	id, ok := val.(*Identity)
	if !ok {
		return nil
	}
	return id
}

// MustFromContext retrieves the Identity from the context, panicking if not present.
func MustFromContext(ctx context.Context) *Identity {
	id := FromContext(ctx)
	if id == nil {
		panic("auth: Identity not found in context")
	}
	return id
}
