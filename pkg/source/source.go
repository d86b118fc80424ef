// Package source adapts collections, files and existing traversers into
// re-traversable entry points for a pipeline.
package source

import (
	"sync"

	"github.com/matzehuels/graphma/pkg/traverse"
)

// Source hands out traversers. Each call to Traverse starts a fresh pass
// unless the source says otherwise.
type Source[T any] interface {
	Traverse() traverse.Traverser[T]
}

// Func adapts a function into a Source.
type Func[T any] func() traverse.Traverser[T]

func (f Func[T]) Traverse() traverse.Traverser[T] { return f() }

// Of returns a source over the given items.
func Of[T any](items ...T) Source[T] { return FromSlice(items) }

// FromSlice returns a source over items. The slice is shared, not copied.
func FromSlice[T any](items []T) Source[T] {
	return sliceSource[T](items)
}

type sliceSource[T any] []T

func (s sliceSource[T]) Traverse() traverse.Traverser[T] { return traverse.Slice([]T(s)) }

// Size reports the number of items.
func (s sliceSource[T]) Size() int64 { return int64(len(s)) }

// Once wraps a traverser that can only be consumed once. The first Traverse
// call returns t; later calls return an empty traverser.
func Once[T any](t traverse.Traverser[T]) Source[T] {
	return &once[T]{t: t}
}

type once[T any] struct {
	mu sync.Mutex
	t  traverse.Traverser[T]
}

func (o *once[T]) Traverse() traverse.Traverser[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	t := o.t
	o.t = nil
	if t == nil {
		return traverse.Empty[T]()
	}
	return t
}
