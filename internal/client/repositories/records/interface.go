package records

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Remove(ctx context.Context, name string) error
	Close() error
}
