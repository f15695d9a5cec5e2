// Package observability provides hooks for logging and metrics.
//
// Libraries emit events through package-level hook registries; the CLI
// registers logger-backed implementations at startup. Until then every hook
// is a no-op, so library code never depends on a particular backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSimulationHooks(&mySimulationHooks{})
//	    observability.SetFetchHooks(&myFetchHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Fetch().OnRequest(ctx, "api", url)
//	// ... perform request ...
//	observability.Fetch().OnResponse(ctx, "api", url, nodes, edges, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from the force simulation. The engine is
// driven by an animation callback without a request context, so these
// hooks identify the simulation by its generation id instead.
type SimulationHooks interface {
	// OnBuild records a freshly built simulation state.
	OnBuild(id string, nodes, edges, rejected int)

	// OnSettled records the tick on which the simulation reached equilibrium.
	OnSettled(id string, ticks int, elapsed time.Duration)

	// OnReheat records an energy floor change, typically a drag start.
	OnReheat(id string, target float64)
}

// =============================================================================
// Fetch Hooks
// =============================================================================

// FetchHooks receives events from graph data sources.
type FetchHooks interface {
	// OnRequest records an outgoing graph request.
	OnRequest(ctx context.Context, source, target string)

	// OnResponse records a successful graph response.
	OnResponse(ctx context.Context, source, target string, nodes, edges int, duration time.Duration)

	// OnError records a failed request (transport, status or decoding).
	OnError(ctx context.Context, source, target string, err error)
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
// No-op Implementations
// =============================================================================

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnBuild(string, int, int, int)        {}
func (NoopSimulationHooks) OnSettled(string, int, time.Duration) {}
func (NoopSimulationHooks) OnReheat(string, float64)             {}

// NoopFetchHooks is a no-op implementation of FetchHooks.
type NoopFetchHooks struct{}

func (NoopFetchHooks) OnRequest(context.Context, string, string) {}
func (NoopFetchHooks) OnResponse(context.Context, string, string, int, int, time.Duration) {
}
func (NoopFetchHooks) OnError(context.Context, string, string, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	simulationHooks SimulationHooks = NoopSimulationHooks{}
	fetchHooks      FetchHooks      = NoopFetchHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetSimulationHooks registers custom simulation hooks.
// This should be called once at application startup.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetFetchHooks registers custom fetch hooks.
// This should be called once at application startup before any fetch.
func SetFetchHooks(h FetchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fetchHooks = h
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

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Fetch returns the registered fetch hooks.
func Fetch() FetchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fetchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	simulationHooks = NoopSimulationHooks{}
	fetchHooks = NoopFetchHooks{}
	cacheHooks = NoopCacheHooks{}
}
