// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// ObjectInfo carries the metadata returned alongside a fetched object.
type ObjectInfo struct {
	ContentType string
	ETag        string
	Size        int64
}

// Storage is the interface for uploading and retrieving objects.
type Storage interface {
	// Upload streams data to the store under the given key. A put to an
	// existing key overwrites it.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Get returns the object's content and metadata, or ErrNotFound.
	// The caller must close the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)
	// Delete removes an object identified by key.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}
