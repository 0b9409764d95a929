package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps timestamps in a process-local map.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[Key][]time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key][]time.Time)}
}

// Count implements Store.
func (m *MemoryStore) Count(_ context.Context, key Key, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, ts := range m.entries[key] {
		if ts.After(since) {
			count++
		}
	}
	return count, nil
}

// Record implements Store.
func (m *MemoryStore) Record(_ context.Context, key Key, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append(m.entries[key], at)
	return nil
}

// Purge implements Purger.
func (m *MemoryStore) Purge(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for key, stamps := range m.entries {
		kept := stamps[:0]
		for _, ts := range stamps {
			if ts.Before(before) {
				removed++
				continue
			}
			kept = append(kept, ts)
		}
		if len(kept) == 0 {
			delete(m.entries, key)
			continue
		}
		m.entries[key] = kept
	}
	return removed, nil
}
