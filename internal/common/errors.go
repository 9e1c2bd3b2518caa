// Package common defines shared sentinel errors used across the registry
// core and its transports. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Validation errors: bad input, non-retryable, caller must fix the request.
	ErrorValidation = errors.New("validation error")

	// Credential errors.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorUnauthorized       = errors.New("unauthorized")

	// Generic flow control.
	ErrorInternal = errors.New("internal error")
)
