package sts

import "errors"

// Sentinel verification errors. Messages match the exact strings spec.md
// §4.5 mandates (capitalized, not the usual lowercase Go convention) since
// callers surface err.Error() directly to operators; spec.md §7 requires
// these never be retried.
var (
	ErrTokenTooLarge           = errors.New("Session token too large")
	ErrInvalidFormat           = errors.New("Invalid JWT format")
	ErrUnsupportedTokenVersion = errors.New("Unsupported token version")
	ErrInvalidTokenType        = errors.New("Invalid token type")
	ErrInvalidIssuer           = errors.New("Invalid issuer")
	ErrInvalidAudience         = errors.New("Invalid audience")
	ErrKeyEvicted              = errors.New("signing key not found (evicted or unknown keyId)")
	ErrInvalidSignature        = errors.New("invalid token signature")
	ErrTokenExpired            = errors.New("token expired")
	ErrTokenNotYetValid        = errors.New("token not yet valid")
	ErrNoPrimaryKey            = errors.New("no primary signing key configured")
	ErrExpiresNotInFuture      = errors.New("expires must be in the future")
)
