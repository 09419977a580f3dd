package pref

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set implements Store.
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Scoped prefixes every key before delegating to an underlying store.
// The server uses it to keep one namespace per visitor.
type Scoped struct {
	store  Store
	prefix string
}

// Scope returns store with keys prefixed by prefix.
func Scope(store Store, prefix string) *Scoped {
	return &Scoped{store: store, prefix: prefix}
}

// Get implements Store.
func (s *Scoped) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.prefix+key)
}

// Set implements Store.
func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.prefix+key, value)
}

// Delete implements Store.
func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.store.Delete(ctx, s.prefix+key)
}
