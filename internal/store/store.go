// Package store implements the three data stores the tracker is built from:
// the identity store (registered users), the session holder (the single
// logged-in user) and the expense store (all expenses across users).
//
// Every operation is a whole-collection read-modify-write over one blob.
// A per-store mutex makes operations atomic within this process; nothing
// protects against a second process sharing the same backend (last write
// wins at whole-collection granularity).
package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"trackmaster/internal/blob"
)

// decodeCollection unmarshals a stored blob into a collection. A malformed
// blob decodes as empty so the application degrades to a fresh state instead
// of failing every call.
func decodeCollection[T any](ctx context.Context, key string, data []byte) []T {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slog.WarnContext(ctx, "Discarding malformed blob", "key", key, "error", err)
		return nil
	}
	return items
}

func readCollection[T any](ctx context.Context, blobs blob.Store, key string) ([]T, error) {
	data, ok, err := blobs.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decodeCollection[T](ctx, key, data), nil
}

func writeCollection[T any](ctx context.Context, blobs blob.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return blobs.Put(ctx, key, data)
}
