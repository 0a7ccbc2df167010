package store

import (
	"context"
	"strings"
	"time"
)

// ScopedStore wraps a KV with a key prefix so several projects can share
// one backend without seeing each other's materials.
//
// Example usage:
//
//	// Keys of project "castle" live under "castle:material:..."
//	kv := NewScopedStore(redisStore, "castle:")
type ScopedStore struct {
	inner  KV
	prefix string
}

// NewScopedStore creates a store whose keys are prefixed with prefix.
func NewScopedStore(inner KV, prefix string) *ScopedStore {
	return &ScopedStore{inner: inner, prefix: prefix}
}

// Get retrieves a prefixed key.
func (s *ScopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set stores a prefixed key.
func (s *ScopedStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

// Delete removes a prefixed key.
func (s *ScopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Keys returns keys in the scope with the scope prefix stripped.
func (s *ScopedStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.inner.Keys(ctx, s.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, s.prefix)
	}
	return keys, nil
}

// Close closes the inner store.
func (s *ScopedStore) Close() error {
	return s.inner.Close()
}

// Ensure ScopedStore implements KV.
var _ KV = (*ScopedStore)(nil)
