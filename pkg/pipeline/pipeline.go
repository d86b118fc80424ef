// Package pipeline composes processing stages into pull-driven chains.
//
// A chain is declared from the sink outwards: start with [Into] and add
// stages towards the source with [Compose] or [Chain.Through]. Applying the
// chain to a [source.Source] instantiates the stages and yields a [Pipeline],
// which [Pipeline.Evaluate] runs exactly once:
//
//	chain := pipeline.Compose(
//	    pipeline.Into(pipeline.Collect[int]).Through(pipeline.Filter(func(x int) bool { return x > 3 })),
//	    pipeline.Map(func(x int) int { return x + 1 }),
//	)
//	got, err := chain.Apply(source.Of(1, 2, 3, 4, 5), pipeline.Options{}).Evaluate(ctx)
//	// got == []int{4, 5, 6}
//
// # Lifecycle
//
// Every pipe is opened before it sees a value and closed after the last one.
// Pushing to a pipe that is not open, or opening or closing it twice, is an
// ILLEGAL_STATE error. A stage may return [ErrStop] from OnNext to end the
// run early; the pipeline then closes normally and returns the sink result.
//
// # Cancellation
//
// Evaluate drives the source with the cancellable traversal loop. Cancelling
// the context stops the run after the current record; the traverser releases
// its file and Evaluate returns the context error.
package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/observability"
	"github.com/matzehuels/graphma/pkg/source"
	"github.com/matzehuels/graphma/pkg/traverse"
)

// ErrStop ends a run early without failing it.
var ErrStop = stderrors.New("pipeline: stop")

// Options configures a pipeline run.
type Options struct {
	// Name labels the run in logs.
	Name string

	// Logger receives run start and completion at debug level.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults applies defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Name == "" {
		o.Name = "pipeline"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Sized is implemented by sources that know how many values they yield.
// The count is announced to the first stage on Open.
type Sized interface {
	Size() int64
}

// Pipeline is a chain bound to a source. It can be evaluated once.
type Pipeline[In, R any] struct {
	src       source.Source[In]
	head      Pipe[In]
	result    func() R
	opts      Options
	evaluated atomic.Bool
}

// Evaluate opens the chain, pushes every value from the source through it,
// closes it and returns the sink result.
func (p *Pipeline[In, R]) Evaluate(ctx context.Context) (R, error) {
	var zero R
	if !p.evaluated.CompareAndSwap(false, true) {
		return zero, errors.IllegalState("pipeline already evaluated")
	}
	if err := p.opts.ValidateAndSetDefaults(); err != nil {
		return zero, err
	}

	runID := uuid.NewString()
	logger := p.opts.Logger.With("pipeline", p.opts.Name, "run", runID)
	logger.Debug("pipeline started")
	observability.Pipeline().OnRunStart(ctx, runID)

	start := time.Now()
	n, err := p.run(ctx)
	duration := time.Since(start)
	observability.Pipeline().OnRunComplete(ctx, runID, n, duration, err)

	if err != nil {
		logger.Debug("pipeline failed", "values", n, "duration", duration, "err", err)
		return zero, err
	}
	logger.Debug("pipeline finished", "values", n, "duration", duration)
	return p.result(), nil
}

// run returns the number of values pulled from the source.
func (p *Pipeline[In, R]) run(ctx context.Context) (int64, error) {
	t := p.src.Traverse()

	count := int64(-1)
	if s, ok := p.src.(Sized); ok {
		count = s.Size()
	}
	if err := p.head.Open(count); err != nil {
		return 0, stderrors.Join(err, traverse.Close(t))
	}

	var (
		index   int64
		pushErr error
	)
	tok := traverse.NewToken()
	st, err := traverse.Run(t, traverse.WithContext(ctx, tok), func(v In) {
		if pushErr != nil {
			return
		}
		if pushErr = p.head.OnNext(index, v); pushErr != nil {
			tok.Stop()
		}
		index++
	})

	switch {
	case err != nil:
		return index, stderrors.Join(err, p.head.Close())
	case pushErr != nil && !stderrors.Is(pushErr, ErrStop):
		return index, stderrors.Join(pushErr, p.head.Close())
	case pushErr == nil && st == traverse.Exit:
		return index, stderrors.Join(ctx.Err(), p.head.Close())
	}
	return index, p.head.Close()
}
