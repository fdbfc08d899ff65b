// ABOUTME: Error taxonomy for authentication and authorization outcomes
// ABOUTME: Unauthorized, Forbidden, and ValidationError map to 401, 403, 400 upstream

package auth

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is the single outcome for every bad-token condition:
// missing, malformed, forged, expired, or revoked. The distinct parse
// reasons exist for internal logging only and are never leaked to callers.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden is returned when a valid, active identity lacks the privilege
// for the requested action. Always distinguishable from ErrUnauthorized.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports a missing required field on registration or login.
// A client error, not an authentication outcome.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}
