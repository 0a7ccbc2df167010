package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements [KV] on a Redis server. It lets several API
// replicas share one set of material graphs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the server addressed by a redis:// or rediss://
// URL and pings it.
func NewRedisStore(ctx context.Context, rawURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	s := NewRedisStoreFromClient(redis.NewClient(opt))
	if err := RetryWithBackoff(ctx, func() error {
		return transient(s.client.Ping(ctx).Err())
	}); err != nil {
		_ = s.client.Close()
		return nil, err
	}
	return s, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves a value.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return err
		}
		return transient(err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value. A zero ttl keeps it forever.
func (s *RedisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return transient(s.client.Set(ctx, key, data, ttl).Err())
	})
}

// Delete removes a key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Keys scans for keys with prefix.
func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements KV.
var _ KV = (*RedisStore)(nil)
