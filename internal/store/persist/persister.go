// internal/store/persist/persister.go
package persist

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no snapshot exists under the key.
// Callers treat it as "start empty", never as a failure.
var ErrNotFound = errors.New("persist: snapshot not found")

// Persister is the storage side channel the stores write through after every
// successful mutation. Writes are best-effort: the in-memory state stays
// authoritative whether or not Save succeeds. Implementations must be safe
// for concurrent use.
type Persister interface {
	// Load returns the raw snapshot stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the snapshot stored under key.
	Save(ctx context.Context, key string, data []byte) error
}
