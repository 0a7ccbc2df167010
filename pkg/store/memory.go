package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory. It backs the API server when
// no persistent store is configured, and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry), now: time.Now}
}

func (m *MemoryStore) live(e memEntry) bool {
	return e.expiresAt.IsZero() || m.now().Before(e.expiresAt)
}

// Get retrieves a copy of the value stored under key.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok || !m.live(e) {
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Set stores a copy of data.
func (m *MemoryStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = e
	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Keys returns the live keys with prefix.
func (m *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k, e := range m.entries {
		if strings.HasPrefix(k, prefix) && m.live(e) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close does nothing.
func (m *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements KV.
var _ KV = (*MemoryStore)(nil)
