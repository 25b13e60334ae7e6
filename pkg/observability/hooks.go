// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, cache operations, and editor
// gestures.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, sectionCount)
//	// ... compute layout ...
//	observability.Pipeline().OnLayoutComplete(ctx, commandCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the document pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, name string)
	OnLoadComplete(ctx context.Context, name string, sectionCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, sectionCount int)
	OnLayoutComplete(ctx context.Context, commandCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Gesture Hooks
// =============================================================================

// GestureHooks receives events from editor drag gestures.
type GestureHooks interface {
	// OnGestureStart records a press on a section.
	OnGestureStart(ctx context.Context, sectionID, sectionType string)

	// OnGestureEnd records the outcome of a completed gesture.
	OnGestureEnd(ctx context.Context, sectionID string, committed, rejected bool, duration time.Duration)

	// OnGestureCancel records an aborted gesture.
	OnGestureCancel(ctx context.Context, sectionID string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopGestureHooks is a no-op implementation of GestureHooks.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnGestureStart(context.Context, string, string)                  {}
func (NoopGestureHooks) OnGestureEnd(context.Context, string, bool, bool, time.Duration) {}
func (NoopGestureHooks) OnGestureCancel(context.Context, string)                         {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	gestureHooks  GestureHooks  = NoopGestureHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetGestureHooks registers custom gesture hooks.
// This should be called once at application startup before the editor runs.
func SetGestureHooks(h GestureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gestureHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gestureHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	gestureHooks = NoopGestureHooks{}
}
