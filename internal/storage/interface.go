package storage

import (
	"context"
	"io"
)

// ArtifactStore holds the published preview payloads and export files.
type ArtifactStore interface {
	// Upload stores an object under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Exists checks whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for accessing an object.
	GetURL(key string) string

	// Delete removes an object.
	Delete(ctx context.Context, key string) error
}
