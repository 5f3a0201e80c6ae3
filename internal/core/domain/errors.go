package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidQuery indicates a malformed query payload.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUnknownLibrary indicates a query targeted an unconfigured library.
	ErrUnknownLibrary = errors.New("unknown library")

	// ErrForbidden indicates the principal is not authorized for the
	// requested action.
	ErrForbidden = errors.New("forbidden")
)
