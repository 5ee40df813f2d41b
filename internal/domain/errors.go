package domain

import "errors"

// Domain-specific errors returned by the storage and routing layers.
var (
	// Database errors
	ErrDatabaseUnavailable = errors.New("database unavailable")
	ErrMissingDatabaseURI  = errors.New("database URI is not configured")

	// Contact errors
	ErrContactNotFound = errors.New("contact not found")
	ErrInvalidID       = errors.New("invalid contact id")
	ErrInvalidDocument = errors.New("contact must be a JSON object")
)
