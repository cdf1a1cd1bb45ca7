// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used in tests and wherever durability is not required.
//
// Characteristics:
//   - Values keyed by player id, then state key.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("not found")

// Store is a per-player key/value store holding session snapshots and
// flags such as the first-visit marker. Keys are disjoint per mode.
type Store interface {
	Get(ctx context.Context, playerID, key string) ([]byte, error)
	Set(ctx context.Context, playerID, key string, value []byte) error
	Delete(ctx context.Context, playerID, key string) error
	// Claim moves fromID's entries to toID, keeping toID's own entries on conflict.
	Claim(ctx context.Context, fromID, toID string) error
}

type memory struct {
	mu   sync.RWMutex                 // guards data
	data map[string]map[string][]byte // player -> key -> value
}

func NewMemoryStore() Store {
	return &memory{data: make(map[string]map[string][]byte)}
}

func (m *memory) Get(ctx context.Context, playerID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[playerID][key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Set(ctx context.Context, playerID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[playerID]
	if !ok {
		p = make(map[string][]byte)
		m.data[playerID] = p
	}
	p[key] = append([]byte(nil), value...)
	return nil
}

func (m *memory) Delete(ctx context.Context, playerID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[playerID], key)
	return nil
}

func (m *memory) Claim(ctx context.Context, fromID, toID string) error {
	if fromID == "" || toID == "" || fromID == toID {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	from, ok := m.data[fromID]
	if !ok {
		return nil
	}
	to, ok := m.data[toID]
	if !ok {
		to = make(map[string][]byte)
		m.data[toID] = to
	}
	for k, v := range from {
		if _, exists := to[k]; !exists {
			to[k] = v
		}
	}
	delete(m.data, fromID)
	return nil
}
