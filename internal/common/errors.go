// Package common defines sentinel errors shared across the service layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors. ErrorUnauthorized covers every login failure
	// (unknown email, wrong password, unset password, inactive account) so
	// callers cannot tell the cases apart. ErrorForbidden covers every
	// refresh-token validity failure the same way.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid credentials")
	ErrorForbidden    = errors.New("access denied")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
)
