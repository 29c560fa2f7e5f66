package records

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/swipecatalog/internal/filex"
	"github.com/dmitrijs2005/swipecatalog/internal/logging"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Store struct {
	backend Backend
	logger  logging.Logger
}

func NewStore(backend Backend, logger logging.Logger) *Store {
	return &Store{backend: backend, logger: logger.With("component", "records")}
}

// Open builds the backend named kind ("file", "sqlite" or "bolt") inside dir.
func Open(ctx context.Context, kind, dir string, logger logging.Logger) (*Store, error) {
	if _, err := filex.EnsureDir(dir); err != nil {
		return nil, err
	}

	var (
		backend Backend
		err     error
	)

	switch kind {
	case "", "file":
		backend, err = NewFileBackend(dir)
	case "sqlite":
		backend, err = OpenSQLite(ctx, filepath.Join(dir, "catalog.db"))
	case "bolt":
		backend, err = OpenBolt(filepath.Join(dir, "catalog.bolt"))
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
	if err != nil {
		return nil, err
	}

	return NewStore(backend, logger), nil
}

// Save replaces the document name with the JSON encoding of v.
func (s *Store) Save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error(ctx, "encode failed", "name", name, "error", err)
		return fmt.Errorf("encode %s: %w", name, err)
	}

	if err := s.backend.Write(ctx, name, data); err != nil {
		s.logger.Error(ctx, "save failed", "name", name, "error", err)
		return err
	}

	s.logger.Debug(ctx, "saved", "name", name, "bytes", len(data))
	return nil
}

// Load decodes the document name into dst and reports whether it did.
// Missing and unreadable documents both yield false.
func (s *Store) Load(ctx context.Context, name string, dst any) bool {
	data, err := s.backend.Read(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn(ctx, "load failed", "name", name, "error", err)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn(ctx, "decode failed", "name", name, "error", err)
		return false
	}
	return true
}

// Remove deletes the document; a missing one is fine.
func (s *Store) Remove(ctx context.Context, name string) error {
	if err := s.backend.Remove(ctx, name); err != nil {
		s.logger.Error(ctx, "remove failed", "name", name, "error", err)
		return err
	}
	return nil
}

// Exists reports whether a document is stored under name.
func (s *Store) Exists(ctx context.Context, name string) bool {
	_, err := s.backend.Read(ctx, name)
	return err == nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// LoadList loads a JSON array document; the result is never nil.
func LoadList[T any](ctx context.Context, s *Store, name string) []T {
	var out []T
	if !s.Load(ctx, name, &out) || out == nil {
		return []T{}
	}
	return out
}
