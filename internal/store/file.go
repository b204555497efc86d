package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend keeps each namespace in <dir>/<namespace>.json.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a backend rooted at dir. The directory is created
// on first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Path returns the file a namespace is stored in.
func (b *FileBackend) Path(namespace string) string {
	return filepath.Join(b.dir, namespace+".json")
}

// Get reads the blob for a namespace.
func (b *FileBackend) Get(_ context.Context, namespace string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(namespace))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", namespace, err)
	}
	return data, nil
}

// Put writes the blob through a temp file and rename, so a crash never
// leaves a half-written ledger behind.
func (b *FileBackend) Put(_ context.Context, namespace string, blob []byte) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, namespace+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", namespace, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", namespace, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", namespace, err)
	}
	if err := os.Rename(tmpName, b.Path(namespace)); err != nil {
		return fmt.Errorf("replacing %s: %w", namespace, err)
	}
	return nil
}
