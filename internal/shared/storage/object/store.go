package object

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the contract for saving, retrieving, and sharing
// binary objects under caller-chosen storage keys.
type ObjectStore interface {
	Save(ctx context.Context, storageKey string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
	// SignedURL returns a time-limited URL granting read access to one key.
	// A non-empty downloadName sets a content-disposition filename hint.
	SignedURL(ctx context.Context, storageKey string, expires time.Duration, downloadName string) (string, error)
}
