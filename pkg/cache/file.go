package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores entries as JSON files under a directory, the default
// backend for CLI runs. Rendered SVG/JSON artifacts and serialized layout
// command lists land here keyed by snapshot hash, so re-rendering an
// unchanged venue is a disk read.
type FileCache struct {
	dir string
}

// NewFileCache creates a file cache rooted at dir, creating the directory
// if needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// cacheEntry is the on-disk envelope: the payload plus its expiry. A zero
// ExpiresAt means the entry never expires.
type cacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get reads an entry. Undecodable and expired entries are removed and
// reported as misses, never as errors: the caller recomputes and the
// cache heals on the following Set.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Data, true, nil
}

// Set writes an entry with the given lifetime. A zero ttl stores the entry
// without expiry.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{Data: data}
	if ttl != 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	blob, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0644)
}

// Delete removes an entry. Deleting an absent key is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op for the file backend.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to <dir>/<hash[:2]>/<hash[2:]>.json. The two-character
// fan-out keeps any single directory small even for venues rendered in
// many viewport/format combinations.
func (c *FileCache) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, sum[:2], sum[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
