package store

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist or is
	// soft-deleted.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates the write violates a uniqueness or reference
	// constraint.
	ErrConflict = errors.New("resource conflict")
)
