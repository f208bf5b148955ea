package storage

import (
	"context"
	"io"
	"time"
)

// StorageInterface is the file-handoff contract for uploaded print
// artifacts. Backends: local filesystem (default) and GCS via Firebase.
type StorageInterface interface {
	// Save persists the artifact under key and returns the byte count.
	Save(ctx context.Context, key, contentType string, reader io.Reader) (int64, error)

	// Open returns a reader over the stored artifact.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks presence and returns the stored size.
	Exists(ctx context.Context, key string) (exists bool, size int64, err error)

	// Delete removes the artifact. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DownloadURL returns a time-limited URL for fetching the artifact.
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// ListKeys enumerates every stored artifact key (orphan cleanup).
	ListKeys(ctx context.Context) ([]string, error)
}
