package pipeline

import (
	"github.com/matzehuels/graphma/pkg/errors"
)

// Pipe is a push target. A stage upstream opens it, pushes values with
// increasing indices, and closes it.
type Pipe[T any] interface {
	// Open announces the number of values to expect, or -1 when unknown.
	Open(count int64) error
	// OnNext delivers the value at index. Returning ErrStop asks the run to
	// end early without error.
	OnNext(index int64, v T) error
	// Close signals that no more values follow.
	Close() error
}

// Stage turns a downstream Pipe[Out] into an upstream Pipe[In]. Attach is
// called once per pipeline, when the pipeline is applied to a source.
type Stage[In, Out any] interface {
	Attach(out Pipe[Out]) Pipe[In]
}

// StageFunc adapts a function into a Stage.
type StageFunc[In, Out any] func(out Pipe[Out]) Pipe[In]

func (f StageFunc[In, Out]) Attach(out Pipe[Out]) Pipe[In] { return f(out) }

// Sink is the terminal pipe of a chain. Its result is read after Close.
type Sink[T, R any] interface {
	Pipe[T]
	Result() R
}

type lifecycle int

const (
	idle lifecycle = iota
	open
	closed
)

func (l lifecycle) String() string {
	switch l {
	case idle:
		return "idle"
	case open:
		return "open"
	}
	return "closed"
}

// guard enforces open → next* → close on a pipe.
type guard struct {
	state lifecycle
}

func (g *guard) open() error {
	if g.state != idle {
		return errors.IllegalState("open on %s pipe", g.state)
	}
	g.state = open
	return nil
}

func (g *guard) next() error {
	if g.state != open {
		return errors.IllegalState("value pushed to %s pipe", g.state)
	}
	return nil
}

func (g *guard) close() error {
	if g.state != open {
		return errors.IllegalState("close on %s pipe", g.state)
	}
	g.state = closed
	return nil
}

// Transform is the base for stages that forward values downstream. Embed it,
// Bind the downstream pipe in the stage constructor, and implement OnNext
// in terms of Yield. Open and Close forward to the downstream pipe.
type Transform[In, Out any] struct {
	down  Pipe[Out]
	g     guard
	index int64
}

// Bind sets the downstream pipe.
func (t *Transform[In, Out]) Bind(out Pipe[Out]) { t.down = out }

// Open opens the transform and its downstream pipe with count.
func (t *Transform[In, Out]) Open(count int64) error {
	if err := t.g.open(); err != nil {
		return err
	}
	return t.down.Open(count)
}

// Ready reports ILLEGAL_STATE unless the transform is open. OnNext
// implementations that may not yield should call it first.
func (t *Transform[In, Out]) Ready() error { return t.g.next() }

// Yield pushes v downstream with the next downstream index.
func (t *Transform[In, Out]) Yield(v Out) error {
	if err := t.g.next(); err != nil {
		return err
	}
	i := t.index
	t.index++
	return t.down.OnNext(i, v)
}

// Close closes the transform and its downstream pipe.
func (t *Transform[In, Out]) Close() error {
	if err := t.g.close(); err != nil {
		return err
	}
	return t.down.Close()
}

// transform builds a stage from an OnNext function. count maps the upstream
// count to the downstream one; nil keeps it.
type transform[In, Out any] struct {
	Transform[In, Out]
	next  func(t *Transform[In, Out], index int64, v In) error
	count func(int64) int64
}

func (t *transform[In, Out]) Open(count int64) error {
	if t.count != nil && count >= 0 {
		count = t.count(count)
	}
	return t.Transform.Open(count)
}

func (t *transform[In, Out]) OnNext(index int64, v In) error {
	if err := t.Ready(); err != nil {
		return err
	}
	return t.next(&t.Transform, index, v)
}

func newStage[In, Out any](count func(int64) int64, next func(t *Transform[In, Out], index int64, v In) error) Stage[In, Out] {
	return StageFunc[In, Out](func(out Pipe[Out]) Pipe[In] {
		t := &transform[In, Out]{next: next, count: count}
		t.Bind(out)
		return t
	})
}

func unknown(int64) int64 { return -1 }
