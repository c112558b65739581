package store

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidName = errors.New("invalid document name")
)

type Store interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, id string) ([]byte, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Save stores r under a sanitized form of name and returns the id used.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// Watcher is implemented by stores that can report changed document ids.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}
