// Package policy holds the authorization decision table for orderd.
//
// Allowed is a pure function over (identity, action, resource descriptor);
// it never reads storage or the clock. Callers load the resource's ownership
// from the store and hand it in, which keeps the matrix testable without any
// HTTP or database plumbing. A deny here is a forbidden outcome, distinct
// from the unauthorized outcome produced by the authentication gate.
package policy
