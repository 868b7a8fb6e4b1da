// Package common defines shared constants and sentinel errors used across
// the secretlink server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors. ErrorNotFound also covers "exists but is not
	// owned by the requesting identity" so that callers cannot tell the two
	// cases apart.
	ErrorNotFound = errors.New("not found")

	// Access-control errors surfaced by the secret read path.
	ErrorExpired          = errors.New("secret expired")
	ErrorConsumed         = errors.New("secret already viewed")
	ErrorPasswordRequired = errors.New("password required")
	ErrorInvalidPassword  = errors.New("invalid password")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")
	ErrorRateLimited  = errors.New("too many requests")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
