package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the markup in a file.
type FileStore struct {
	path string
}

// NewFileStore creates a store for a file path. The file need not exist
// until the first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the markup from the file.
func (s *FileStore) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, s.path)
	} else if err != nil {
		return "", err
	}
	tracer().Debugf("loaded %d bytes from %s", len(b), s.path)
	return string(b), nil
}

// Save writes the markup to the file, replacing it atomically.
func (s *FileStore) Save(ctx context.Context, markup string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".uxb-*.html")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err = tmp.WriteString(markup); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return err
	}
	tracer().Infof("saved %d bytes to %s", len(markup), s.path)
	return nil
}
