package records

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/swipecatalog/internal/filex"
)

type FileBackend struct {
	dir string
}

// NewFileBackend stores documents as files inside dir, creating it if
// needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileBackend{dir: abs}, nil
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, filepath.Base(name))
}

func (b *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(b.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (b *FileBackend) Write(_ context.Context, name string, data []byte) error {
	if err := filex.WriteFileAtomic(b.path(name), data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (b *FileBackend) Remove(_ context.Context, name string) error {
	if err := filex.RemoveIfExists(b.path(name)); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }
