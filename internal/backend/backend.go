// Package backend selects and constructs the blob persistence backend.
package backend

import (
	"fmt"

	"trackmaster/internal/blob"
	"trackmaster/internal/storage"
)

type Type string

const (
	Memory Type = "memory"
	File   Type = "file"
	SQLite Type = "sqlite"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case Memory, File, SQLite:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Config holds what each backend needs to start.
type Config struct {
	Type Type

	// File backend
	DataDir string

	// SQLite backend
	SQLiteDBPath string
}

// Result carries the constructed store and its cleanup. Cleanup is always
// non-nil so callers can defer it unconditionally.
type Result struct {
	Store   blob.Store
	Cleanup CleanupFunc
}

func noCleanup() error { return nil }

// New constructs the blob store for the configured backend type.
func New(cfg Config) (*Result, error) {
	switch cfg.Type {
	case Memory:
		return &Result{Store: blob.NewMemoryStore(), Cleanup: noCleanup}, nil
	case File:
		dir := cfg.DataDir
		if dir == "" {
			dir = "data"
		}
		fs, err := blob.NewFileStore(dir)
		if err != nil {
			return nil, fmt.Errorf("initialize file backend: %w", err)
		}
		return &Result{Store: fs, Cleanup: noCleanup}, nil
	case SQLite:
		db, err := storage.NewSQLiteBlobStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		return &Result{Store: db, Cleanup: db.Close}, nil
	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}
