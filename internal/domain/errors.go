package domain

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a resource already exists (e.g., duplicate SKU)
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a concurrent modification is detected
	ErrConflict = errors.New("conflict occurred")

	// ErrInsufficientStock is returned when a cart operation requests more units than are available
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
)
