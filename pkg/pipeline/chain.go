package pipeline

import (
	"github.com/matzehuels/graphma/pkg/source"
)

// Chain is a pipeline declared from the sink outwards. It is a recipe:
// nothing is instantiated until Apply attaches a source, so one Chain can
// be applied any number of times and every application gets its own stages.
type Chain[In, R any] struct {
	build func() (Pipe[In], func() R)
}

// Into starts a chain at a sink. newSink is called once per Apply.
func Into[T, R any](newSink func() Sink[T, R]) Chain[T, R] {
	return Chain[T, R]{build: func() (Pipe[T], func() R) {
		s := newSink()
		return s, s.Result
	}}
}

// Compose extends tail by one stage towards the source. Reading a nested
// Compose from the inside out gives the order values flow in:
//
//	Compose(Compose(Into(Collect[int]), Filter(gt3)), Map(inc))
//
// maps first and filters the mapped values.
func Compose[In, Out, R any](tail Chain[Out, R], stage Stage[In, Out]) Chain[In, R] {
	return Chain[In, R]{build: func() (Pipe[In], func() R) {
		down, result := tail.build()
		return stage.Attach(down), result
	}}
}

// Through extends c by a stage that keeps the value type.
func (c Chain[In, R]) Through(stage Stage[In, In]) Chain[In, R] {
	return Compose(c, stage)
}

// Composer builds the next stage outwards given the part of the chain
// already assembled.
type Composer[In, Out, R any] func(tail Chain[Out, R]) Chain[In, R]

// With turns a stage into a Composer.
func With[In, Out, R any](stage Stage[In, Out]) Composer[In, Out, R] {
	return func(tail Chain[Out, R]) Chain[In, R] { return Compose(tail, stage) }
}

// Apply attaches src and instantiates every stage, tail first.
func (c Chain[In, R]) Apply(src source.Source[In], opts Options) *Pipeline[In, R] {
	head, result := c.build()
	return &Pipeline[In, R]{src: src, head: head, result: result, opts: opts}
}
