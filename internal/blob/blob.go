// Package blob provides the key-value blob persistence backends the data
// stores are built on. Each collection is serialized as a single blob under a
// well-known key; backends only move opaque bytes.
package blob

import "context"

const (
	UsersKey    = "trackmaster_users"
	ExpensesKey = "trackmaster_expenses"
	SessionKey  = "trackmaster_session"
)

// Store is a durable (or in-memory) key-value blob backend.
type Store interface {
	// Get returns the blob stored under key, or ok=false when absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores the blob under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the blob under key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
