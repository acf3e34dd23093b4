package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown marketplace type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Handshake Errors.

	// ErrHandshakeInFlight indicates another unresolved handshake exists
	// for the same marketplace in this process. Callers must cancel or
	// wait before starting a new one.
	ErrHandshakeInFlight = errors.New("handshake already in flight")

	// ErrOAuthNotConfigured indicates the marketplace has no OAuth app
	// credentials configured. The user must add client credentials first.
	ErrOAuthNotConfigured = errors.New("oauth app not configured")

	// ErrAuthRequired indicates the marketplace requires authentication
	// but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the marketplace API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
