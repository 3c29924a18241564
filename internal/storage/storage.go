// Package storage persists rendered document artifacts behind a pluggable
// driver so deployments can choose local disk or S3-compatible storage.
package storage

import (
	"context"
	"io"
	"time"
)

// Driver defines how rendered documents are written to and read from the
// artifact store.
type Driver interface {
	// Save writes the content under the given key
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Get returns a ReadCloser to stream the artifact back and its content type
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes the artifact
	Delete(ctx context.Context, key string) error

	// GenerateURL returns a public-facing URL for the artifact
	GenerateURL(ctx context.Context, key string, expires time.Duration) (string, error)
}
