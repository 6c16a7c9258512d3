// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about hierarchy construction, metric recomputation, store
// operations, and API calls.
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
//   - Allows different backends (OpenTelemetry, Prometheus, plain logs, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetNetworkHooks(&myNetworkHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Network().OnDegradedRoot(ctx, rootID, nodeCount)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Network Hooks
// =============================================================================

// NetworkHooks receives events from network and hierarchy operations.
type NetworkHooks interface {
	// OnRecompute records a full metric recomputation pass.
	OnRecompute(ctx context.Context, nodeCount, edgeCount int, duration time.Duration)

	// OnDegradedRoot records that a hierarchy build found zero root candidates
	// and fell back to a deterministically chosen node. This is a
	// degraded-mode condition, not a user-facing error.
	OnDegradedRoot(ctx context.Context, rootID string, nodeCount int)

	// OnDroppedEdge records an edge skipped during hierarchy construction
	// because its target was missing or would have closed a cycle.
	OnDroppedEdge(ctx context.Context, from, to, reason string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from snapshot persistence.
type StoreHooks interface {
	// OnLoad records a snapshot load.
	OnLoad(ctx context.Context, backend string, size int, err error)

	// OnSave records a snapshot save.
	OnSave(ctx context.Context, backend string, size int, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopNetworkHooks is a no-op implementation of NetworkHooks.
type NoopNetworkHooks struct{}

func (NoopNetworkHooks) OnRecompute(context.Context, int, int, time.Duration) {}
func (NoopNetworkHooks) OnDegradedRoot(context.Context, string, int)          {}
func (NoopNetworkHooks) OnDroppedEdge(context.Context, string, string, string) {
}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, int, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, int, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	networkHooks NetworkHooks = NoopNetworkHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetNetworkHooks registers custom network hooks.
// This should be called once at application startup before any network operations.
func SetNetworkHooks(h NetworkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		networkHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Network returns the registered network hooks.
func Network() NetworkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return networkHooks
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
	networkHooks = NoopNetworkHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
