// Package store persists named collections as whole-snapshot blobs.
//
// The bot's working set is tiny (one sitter list, at most a handful of
// bookings), so every collection is loaded and replaced in full. Load and
// Save are atomic per collection; callers layer their own locking across
// the load-mutate-save sequence.
package store

import "context"

// Store reads and writes collection snapshots.
type Store interface {
	// Load returns the latest snapshot for the collection, or nil if the
	// collection has never been saved.
	Load(ctx context.Context, collection string) ([]byte, error)

	// Save atomically replaces the collection's snapshot.
	Save(ctx context.Context, collection string, data []byte) error
}
