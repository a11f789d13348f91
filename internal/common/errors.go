// Package common defines shared constants and sentinel errors used across
// JourneyKeeper components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors. ErrorNotFound also covers records owned by
	// another profile: absent and foreign-owned are indistinguishable to
	// the caller.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation errors (label length, unknown kind or trigger).
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrorInvalidToken = errors.New("invalid token")
)
