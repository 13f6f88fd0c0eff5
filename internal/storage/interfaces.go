// Package storage defines interfaces for recipe image blob backends.
// The storage layer persists and retrieves raw image data; the database
// keeps only the storage key.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a stored object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Backend defines the interface for image storage backends.
// Implementations include the local filesystem and S3-compatible stores.
type Backend interface {
	// Store writes content under the given key, replacing any existing
	// object at that key.
	Store(ctx context.Context, key string, reader io.Reader) error

	// Retrieve opens the object stored under key.
	// Returns ErrNotFound if no object exists. The caller must close
	// the returned reader.
	Retrieve(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key.
	// Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}
