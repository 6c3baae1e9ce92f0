package storage

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a write collides with an existing key.
	ErrAlreadyExists = errors.New("already exists")
)
