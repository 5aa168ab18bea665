package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"assettracker-backend/internal/shared/storage/object"
)

// Store is a local-disk ObjectStore for development.
type Store struct {
	baseDir string
}

// New constructs a local store rooted at baseDir.
func New(baseDir string) *Store {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "./data"
	}
	return &Store{baseDir: baseDir}
}

func (s *Store) pathFor(storageKey string) (string, error) {
	clean := filepath.Clean(storageKey)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key: %s", storageKey)
	}
	return filepath.Join(s.baseDir, clean), nil
}

// Save writes the reader contents to disk under the storage key.
func (s *Store) Save(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	_ = contentType

	dest, err := s.pathFor(storageKey)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir for %s: %w", storageKey, err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", storageKey, err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", storageKey, err)
	}
	return n, nil
}

// Open opens a stored file for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := s.pathFor(storageKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", storageKey, err)
	}
	return f, nil
}

// Delete removes a stored file.
func (s *Store) Delete(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := s.pathFor(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil {
		return fmt.Errorf("remove %s: %w", storageKey, err)
	}
	return nil
}

// SignedURL returns a file URL; local development has no access control.
func (s *Store) SignedURL(ctx context.Context, storageKey string, expires time.Duration, downloadName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_ = expires
	_ = downloadName

	dest, err := s.pathFor(storageKey)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", err
	}
	return "file://" + abs, nil
}

var _ object.ObjectStore = (*Store)(nil)
