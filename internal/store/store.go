// internal/store/store.go

// Package store implements the storefront's two client-state collections:
// the shopping cart and the product comparison list. Both hold full product
// snapshots, mutate only through their exported operations, notify
// subscribers after every mutation, and write a best-effort JSON snapshot
// through an injected Persister. In-memory state stays authoritative for the
// session even when persistence fails.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Storage keys. Session-scoped deployments suffix these with the session id.
const (
	CartStorageKey    = "uzagro-cart-storage"
	CompareStorageKey = "uzagro-compare-storage"
)

// snapshotVersion tags persisted blobs so the shape can evolve later.
const snapshotVersion = 1

// persistTimeout bounds a single synchronous Save/Load against a slow
// backend. The mutation itself never waits on anything else.
const persistTimeout = 3 * time.Second

func persistContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), persistTimeout)
}

// hub is the subscription half of each store. Listeners fire after a
// mutation has been applied and persisted; they run outside the store lock
// so a listener may read the store freely.
type hub struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

// subscribe registers fn and returns its unsubscribe func.
func (h *hub) subscribe(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.listeners == nil {
		h.listeners = make(map[int]func())
	}
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

func (h *hub) notify() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func logPersistFailure(key string, err error) {
	logrus.WithError(err).WithField("key", key).Warn("Failed to persist store snapshot")
}

func logRehydrateFailure(key string, err error) {
	logrus.WithError(err).WithField("key", key).Warn("Failed to rehydrate store snapshot, starting empty")
}
