package store

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileStore implements a file-based store for CLI usage.
// Entries are stored as files in a directory with metadata (key, expiration).
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// fileEntry wraps stored data with metadata.
type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e *fileEntry) expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// Get retrieves a value from the store.
func (c *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, ok, err := c.read(c.path(key))
	if err != nil || !ok {
		return nil, false, err
	}
	return entry.Data, true, nil
}

func (c *FileStore) read(path string) (*fileEntry, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Invalid entry - treat as miss
		_ = os.Remove(path)
		return nil, false, nil
	}

	if entry.expired() {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return &entry, true, nil
}

// Set stores a value in the store.
func (c *FileStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{
		Key:  key,
		Data: data,
	}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write then rename so readers never see a partial entry.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, entryData, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes a value from the store.
func (c *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Keys walks the store directory and returns the live keys with prefix.
func (c *FileStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		entry, ok, err := c.read(path)
		if err != nil {
			return err
		}
		if ok && strings.HasPrefix(entry.Key, prefix) {
			keys = append(keys, entry.Key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Close does nothing for file store.
func (c *FileStore) Close() error {
	return nil
}

// path converts a key to a file path under a two-character shard directory.
func (c *FileStore) path(key string) string {
	h := Hash(key)
	return filepath.Join(c.dir, h[:2], h[2:]+".json")
}

// Ensure FileStore implements KV.
var _ KV = (*FileStore)(nil)
