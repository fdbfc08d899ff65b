// ABOUTME: HTTP middleware for bearer token authentication on API endpoints
// ABOUTME: Extracts the token from the Authorization header and adds the identity to context

package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// writeMessage writes the fixed JSON error body the API uses for auth failures.
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// RequireAuth creates an HTTP middleware that authenticates the request and
// adds the Identity to the request context. Requests without a valid, active
// token receive 401 {"message":"unauthorized"}. A session registry failure
// is a service fault, not a credential problem, and surfaces as 500 so
// clients do not discard valid tokens.
func RequireAuth(gate *Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := gate.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, ErrUnauthorized) {
					writeMessage(w, http.StatusUnauthorized, "unauthorized")
					return
				}
				writeMessage(w, http.StatusInternalServerError, "service unavailable")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalAuth creates an HTTP middleware that attempts authentication but
// allows unauthenticated requests through as anonymous. Used by read
// endpoints that behave differently for authenticated users. Only a rejected
// credential downgrades to anonymous; a registry failure surfaces as 500.
func OptionalAuth(gate *Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := gate.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, ErrUnauthorized) {
					next.ServeHTTP(w, r) // Continue as anonymous
					return
				}
				writeMessage(w, http.StatusInternalServerError, "service unavailable")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}
