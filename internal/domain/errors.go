package domain

import "errors"

var (
	// ErrUnauthorized is returned when a protected operation has no authenticated principal
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the principal lacks the required role
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a referenced record does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed or incomplete input
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate is returned when a uniqueness constraint is violated
	ErrDuplicate = errors.New("duplicate record")
)
