package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const recordExtension = ".yaml"

// FileStore keeps each record in its own YAML file inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("file store: directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load reads the record stored under key.
func (store *FileStore) Load(_ context.Context, key string) ([]byte, error) {
	path, err := store.recordPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read record %s: %w", key, err)
	}
	return data, nil
}

// Save replaces the record stored under key.
func (store *FileStore) Save(_ context.Context, key string, data []byte) error {
	path, err := store.recordPath(key)
	if err != nil {
		return err
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write record %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace record %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for file stores.
func (store *FileStore) Close() error {
	return nil
}

func (store *FileStore) recordPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid record key %q", key)
	}
	return filepath.Join(store.dir, key+recordExtension), nil
}
