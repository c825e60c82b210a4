// Package blobstore abstracts where snapshot blobs live: in memory, on the
// local file system, or in S3-compatible object storage.
package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a blob does not exist.
var ErrNotFound = errors.New("blobstore: blob not found")

// BlobStore stores immutable named blobs.
type BlobStore interface {
	// Put writes a blob atomically, replacing any existing blob of the
	// same name.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads a whole blob. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
