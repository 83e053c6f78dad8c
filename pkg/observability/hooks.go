// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about render execution and
// annotation cache behavior.
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
//	observability.Pipeline().OnRenderStart(ctx, trackCount)
//	// ... draw tracks ...
//	observability.Pipeline().OnRenderComplete(ctx, bytes, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	// Input loading and assembly events
	OnLoadStart(ctx context.Context)
	OnLoadComplete(ctx context.Context, contigs int, duration time.Duration, err error)
	OnAssembleComplete(ctx context.Context, length int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, tracks int)
	OnRenderComplete(ctx context.Context, bytes int, duration time.Duration, err error)
}

// CacheHooks receives events from the annotation file cache.
type CacheHooks interface {
	OnHit(path, format string)
	OnMiss(path, format string)
}

// NoopPipelineHooks is a PipelineHooks implementation that does nothing.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context)                                   {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, int, time.Duration, error)     {}
func (NoopPipelineHooks) OnAssembleComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, int)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, int, time.Duration, error)   {}

// NoopCacheHooks is a CacheHooks implementation that does nothing.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(string, string)  {}
func (NoopCacheHooks) OnMiss(string, string) {}

var (
	mu            sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
)

// SetPipelineHooks registers hooks for render pipeline events.
// Pass nil to restore the no-op default.
func SetPipelineHooks(h PipelineHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		pipelineHooks = NoopPipelineHooks{}
		return
	}
	pipelineHooks = h
}

// SetCacheHooks registers hooks for annotation cache events.
// Pass nil to restore the no-op default.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		cacheHooks = NoopCacheHooks{}
		return
	}
	cacheHooks = h
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
