// Package observability lets an application watch traversals, pipeline runs
// and cache traffic without the libraries depending on a metrics stack.
//
// Each event family has a hook interface and a no-op default. Libraries look
// up the registered hooks at the point of the event:
//
//	observability.Pipeline().OnRunStart(ctx, runID)
//
// and an application installs its own once, before doing any work:
//
//	observability.SetCacheHooks(promCacheHooks{})
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// TraversalHooks observes file traversers. Traversers hold no context, so
// neither do these hooks.
type TraversalHooks interface {
	// OnOpen fires when a traverser opens path; window renders the requested
	// record range.
	OnOpen(format, path, window string)

	// OnClose fires once per traverser, after its handle is released, with
	// the number of records it consumed and the error that ended it.
	OnClose(format, path string, records uint64, err error)
}

// PipelineHooks observes pipeline evaluations.
type PipelineHooks interface {
	OnRunStart(ctx context.Context, runID string)
	OnRunComplete(ctx context.Context, runID string, values int64, duration time.Duration, err error)
}

// CacheHooks observes cache backends. keyType is the key kind ("header",
// "stats") as reported by cache.KeyType.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

type NoopTraversalHooks struct{}

func (NoopTraversalHooks) OnOpen(string, string, string)         {}
func (NoopTraversalHooks) OnClose(string, string, uint64, error) {}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnRunStart(context.Context, string)                                 {}
func (NoopPipelineHooks) OnRunComplete(context.Context, string, int64, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// slot holds the current hooks of one family.
type slot[H any] struct {
	cur  atomic.Pointer[H]
	noop H
}

func (s *slot[H]) get() H {
	if h := s.cur.Load(); h != nil {
		return *h
	}
	return s.noop
}

func (s *slot[H]) set(h H) { s.cur.Store(&h) }

func (s *slot[H]) reset() { s.cur.Store(nil) }

var (
	traversal = slot[TraversalHooks]{noop: NoopTraversalHooks{}}
	pipeline  = slot[PipelineHooks]{noop: NoopPipelineHooks{}}
	cache     = slot[CacheHooks]{noop: NoopCacheHooks{}}
)

// SetTraversalHooks installs h. A nil h is ignored.
func SetTraversalHooks(h TraversalHooks) {
	if h != nil {
		traversal.set(h)
	}
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipeline.set(h)
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cache.set(h)
	}
}

func Traversal() TraversalHooks { return traversal.get() }
func Pipeline() PipelineHooks   { return pipeline.get() }
func Cache() CacheHooks         { return cache.get() }

// Reset reinstalls the no-op hooks of every family.
func Reset() {
	traversal.reset()
	pipeline.reset()
	cache.reset()
}
