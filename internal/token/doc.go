// Package token mints and verifies the signed bearer tokens that carry an
// authenticated identity between requests. Tokens are self-contained HS256
// JWTs; revocation is handled separately by the session registry.
package token
