// Package session tracks issued bearer tokens from activation at login
// through revocation at logout. Token validity is layered: the codec rejects
// structural and expiry failures first, then the registry answers whether a
// well-formed token is still active.
package session
