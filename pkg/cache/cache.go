// Package cache provides artifact caching for rendered venue documents.
//
// Re-rendering a large venue is cheap but not free, and serve mode may
// realize the same snapshot for many clients. The pipeline keys rendered
// artifacts by snapshot content hash plus render options, so any edit
// naturally invalidates the entry.
//
// Backends:
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for multi-instance serve deployments
//   - NullCache: disabled caching, for tests and one-shot renders
package cache

import (
	"context"
	"time"
)

// Default TTLs per key type. Entries are keyed by content hash, so
// staleness is not a correctness concern and the TTLs mostly bound disk
// and memory growth.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
	TTLDocument = 7 * 24 * time.Hour
)

// Cache is the interface all caching backends implement. Get returns
// (data, hit, error); a miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts are the layout parameters that participate in layout cache
// keys.
type LayoutKeyOpts struct {
	Width  float64
	Height float64
}

// ArtifactKeyOpts are the render parameters that participate in artifact
// cache keys.
type ArtifactKeyOpts struct {
	Format string // "svg", "json"
	Width  float64
	Height float64
}

// Keyer generates cache keys for the different cached value types.
type Keyer interface {
	// LayoutKey keys a computed draw-command list by snapshot hash and
	// viewport.
	LayoutKey(snapshotHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by snapshot hash and render
	// options.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string

	// DocumentKey keys a stored venue document by name.
	DocumentKey(name string) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", snapshotHash, opts.Width, opts.Height)
}

// ArtifactKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", snapshotHash, opts.Format, opts.Width, opts.Height)
}

// DocumentKey generates a key for document caching.
func (k *DefaultKeyer) DocumentKey(name string) string {
	return "doc:" + name
}
