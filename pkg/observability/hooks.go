// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about the animation driver, recoverable layout races, and
// coordinate cache evictions.
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
//   - Allows different backends (log lines, Prometheus, OpenTelemetry, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnTornRead(err)
//	observability.Store().OnEvict(n)
//
// Hooks are invoked from whichever goroutine produced the event, including
// the animation goroutine while it holds the store's exclusion domain.
// Implementations must be fast and must not call back into the store or
// the scheduler.
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the layout scheduler and its animation driver.
type LayoutHooks interface {
	// Animation lifecycle
	OnAnimationStart(interval time.Duration, iterationsPerTick int)
	OnAnimationStop(ticks int)

	// OnTick records one completed animation tick.
	OnTick(iterations int, duration time.Duration)

	// OnTornRead records a tick skipped because the graph changed while the
	// engine was reading it.
	OnTornRead(err error)

	// OnInconsistentState records a coordinate count that does not match the
	// node count of the graph after reconciliation.
	OnInconsistentState(want, got int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from coordinate store operations.
type StoreHooks interface {
	// OnEvict records inactive coordinates dropped to honour the cache bound.
	OnEvict(count int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnAnimationStart(time.Duration, int) {}
func (NoopLayoutHooks) OnAnimationStop(int)                 {}
func (NoopLayoutHooks) OnTick(int, time.Duration)           {}
func (NoopLayoutHooks) OnTornRead(error)                    {}
func (NoopLayoutHooks) OnInconsistentState(int, int)        {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnEvict(int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any scheduler is created.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store is created.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	storeHooks = NoopStoreHooks{}
}
