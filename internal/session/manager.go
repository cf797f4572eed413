// internal/session/manager.go

// Package session scopes the cart and compare stores to a browser session.
// Each session id gets its own store pair, lazily built and rehydrated from
// the shared persister; idle pairs are evicted from memory while their
// persisted snapshots stay behind for the next visit.
package session

import (
	"sync"
	"time"

	"github.com/uzagro/storefront/internal/store"
	"github.com/uzagro/storefront/internal/store/persist"
)

type entry struct {
	cart     *store.Cart
	compare  *store.Compare
	lastSeen time.Time
}

type Manager struct {
	mu        sync.Mutex
	sessions  map[string]*entry
	persister persist.Persister
	idleTTL   time.Duration
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewManager(persister persist.Persister, idleTTL time.Duration) *Manager {
	m := &Manager{
		sessions:  make(map[string]*entry),
		persister: persister,
		idleTTL:   idleTTL,
		stop:      make(chan struct{}),
	}

	// Evict idle store pairs every minute. Persisted snapshots survive
	// eviction, so a returning session rehydrates transparently.
	go m.evictIdle()

	return m
}

// Stores returns the cart and compare stores for the session, building and
// rehydrating them on first use.
func (m *Manager) Stores(sessionID string) (*store.Cart, *store.Compare) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		e = &entry{
			cart:    store.NewCart(m.persister, store.CartStorageKey+":"+sessionID),
			compare: store.NewCompare(m.persister, store.CompareStorageKey+":"+sessionID),
		}
		m.sessions[sessionID] = e
	}
	e.lastSeen = time.Now()

	return e.cart, e.compare
}

// Len returns the number of resident session pairs.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the eviction loop.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) evictIdle() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.idleTTL {
			delete(m.sessions, id)
		}
	}
}
