package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/w-h-a/research/store"
)

type localStore struct {
	options store.Options
}

func (s *localStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.options.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !store.Allowed(entry.Name()) {
			continue
		}
		ids = append(ids, entry.Name())
	}

	return ids, nil
}

func (s *localStore) Read(ctx context.Context, id string) ([]byte, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	bs, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}

	return bs, nil
}

func (s *localStore) Exists(ctx context.Context, id string) (bool, error) {
	path, err := s.path(id)
	if err != nil {
		return false, nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return !info.IsDir(), nil
}

func (s *localStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	id := store.SecureName(name)
	if len(id) == 0 || !store.Allowed(id) {
		return "", store.ErrInvalidName
	}

	tmp, err := os.CreateTemp(s.options.Location, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close upload: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.options.Location, id)); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return id, nil
}

// Watch reports the id of every document that is written, created, removed
// or renamed in the store's directory until ctx is done.
func (s *localStore) Watch(ctx context.Context) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(s.options.Location); err != nil {
		w.Close()
		return nil, err
	}

	out := make(chan string)

	go func() {
		defer close(out)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				id := filepath.Base(ev.Name)
				if !store.Allowed(id) {
					continue
				}
				select {
				case out <- id:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.WarnContext(ctx, "document watcher error", "error", err)
			}
		}
	}()

	return out, nil
}

func (s *localStore) path(id string) (string, error) {
	if len(id) == 0 || id == "." || id == ".." || filepath.Base(id) != id {
		return "", store.ErrInvalidName
	}
	return filepath.Join(s.options.Location, id), nil
}

func NewStore(opts ...store.Option) *localStore {
	options := store.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = "uploads"
	}

	if err := os.MkdirAll(options.Location, 0o755); err != nil {
		detail := "failed to create document directory"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	return &localStore{
		options: options,
	}
}
