// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about graph batches, graph store access, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The Prometheus implementation lives in the promhooks subpackage so that
// library code importing this package does not pull in a metrics client.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBatchHooks(&myBatchHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Batch().OnBatchStart(ctx, "setup", material, len(files))
//	// ... edit the graph ...
//	observability.Batch().OnBatchComplete(ctx, "setup", material, created, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Batch Hooks
// =============================================================================

// BatchHooks receives events from graph edit batches (setup, transform,
// collect).
type BatchHooks interface {
	// OnBatchStart records the start of a batch over items inputs.
	OnBatchStart(ctx context.Context, batch, material string, items int)

	// OnBatchComplete records the end of a batch and the number of nodes or
	// files it created.
	OnBatchComplete(ctx context.Context, batch, material string, created int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from graph store operations.
type StoreHooks interface {
	// OnGraphLoad records a successful graph load.
	OnGraphLoad(ctx context.Context, backend string)

	// OnGraphMiss records a lookup of a material without a graph.
	OnGraphMiss(ctx context.Context, backend string)

	// OnGraphSave records a graph write of size bytes.
	OnGraphSave(ctx context.Context, backend string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBatchHooks is a no-op implementation of BatchHooks.
type NoopBatchHooks struct{}

func (NoopBatchHooks) OnBatchStart(context.Context, string, string, int) {}
func (NoopBatchHooks) OnBatchComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnGraphLoad(context.Context, string)      {}
func (NoopStoreHooks) OnGraphMiss(context.Context, string)      {}
func (NoopStoreHooks) OnGraphSave(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                     {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	batchHooks BatchHooks = NoopBatchHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetBatchHooks registers custom batch hooks.
// This should be called once at application startup before any batch runs.
func SetBatchHooks(h BatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		batchHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store access.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Batch returns the registered batch hooks.
func Batch() BatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return batchHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	batchHooks = NoopBatchHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
