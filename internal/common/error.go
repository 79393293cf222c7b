// Package common defines shared constants and sentinel errors used across
// the authentication core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential errors (account exists, password mismatch).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Access token errors (malformed, mis-signed, expired or wrong type).
	ErrInvalidToken = errors.New("invalid token")

	// Refresh token errors. Absent, revoked and expired all collapse to one
	// externally visible outcome.
	ErrRefreshTokenInvalid = errors.New("invalid or expired refresh token")

	// Login throttle errors.
	ErrRateLimited = errors.New("too many attempts")
)
