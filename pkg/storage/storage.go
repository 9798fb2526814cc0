package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidKey is returned for keys that would escape the storage root.
var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a stored file.
type Object struct {
	Key string
	URL string
}

// FileStorage abstracts where uploaded files live.
type FileStorage interface {
	Save(ctx context.Context, key string, reader io.Reader) (Object, error)
	Delete(ctx context.Context, key string) error
}

// Local stores files on disk and serves them under a public URL prefix.
type Local struct {
	root      string
	urlPrefix string
}

// NewLocal creates the root directory if needed.
func NewLocal(root, urlPrefix string) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root must not be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Local{root: root, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Root returns the directory files are written to.
func (l *Local) Root() string {
	return l.root
}

// Save writes the reader to root/key.
func (l *Local) Save(ctx context.Context, key string, reader io.Reader) (Object, error) {
	path, err := l.resolve(key)
	if err != nil {
		return Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("create %s: %w", key, err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return Object{}, fmt.Errorf("write %s: %w", key, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return Object{}, fmt.Errorf("close %s: %w", key, err)
	}

	return Object{Key: key, URL: l.urlPrefix + "/" + key}, nil
}

// Delete removes root/key. Missing files are not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (l *Local) resolve(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", ErrInvalidKey
	}
	return filepath.Join(l.root, key), nil
}
