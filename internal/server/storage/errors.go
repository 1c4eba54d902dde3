package storage

import "errors"

// Common storage errors
var (
	// ErrEntityNotFound indicates that the target entity does not exist (or is not visible to the caller)
	ErrEntityNotFound = errors.New("entity not found")

	// ErrVersionConflict indicates that the change was based on a stale syncVersion
	ErrVersionConflict = errors.New("version conflict")
)
