package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound indicates that no record is stored under a key.
var ErrNotFound = errors.New("record not found")

// Kind selects a Store backend.
type Kind string

const (
	KindYAML   Kind = "yaml"
	KindSQLite Kind = "sqlite"
)

// Store is a flat key-value store holding serialized records.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// Open returns the backend of the given kind rooted at dir.
func Open(kind Kind, dir string) (Store, error) {
	switch kind {
	case KindYAML, "":
		return NewFileStore(dir)
	case KindSQLite:
		return NewSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
