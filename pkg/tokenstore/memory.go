package tokenstore

import (
	"context"
	"sync"
)

// MemoryStore keeps the entry in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	entry Entry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(ctx context.Context) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entry.clone(), nil
}

func (m *MemoryStore) Set(ctx context.Context, entry Entry) error {
	if err := entry.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = entry.clone()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = Entry{}
	return nil
}
