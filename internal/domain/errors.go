package domain

import "errors"

// Sentinel errors for the library domain - match with errors.Is().
// Handlers map these to HTTP status codes; services wrap them with context
// via fmt.Errorf("...: %w", err).
var (
	// ErrNotFound indicates a folder, parent, or target that does not exist,
	// is soft-deleted, or belongs to another school.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation indicates a structurally illegal mutation, such as
	// a self-referential move or a cycle-creating move/copy target.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrValidation indicates malformed input (empty name, bad identifier).
	ErrValidation = errors.New("validation failed")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
