package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no bearer token is stored
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
