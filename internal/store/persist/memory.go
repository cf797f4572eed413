// internal/store/persist/memory.go
package persist

import (
	"context"
	"sync"
)

// Memory keeps snapshots in a process-local map. It is the test substitute
// and the fallback backend when no durable storage is configured.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) Save(_ context.Context, key string, data []byte) error {
	blob := make([]byte, len(data))
	copy(blob, data)

	m.mu.Lock()
	m.blobs[key] = blob
	m.mu.Unlock()
	return nil
}
