package operator

import (
	"context"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/graph"
	"github.com/matzehuels/graphma/pkg/pipeline"
	"github.com/matzehuels/graphma/pkg/source"
	"github.com/matzehuels/graphma/pkg/traverse"
)

// Feed returns a sink that adds every edge to b: two AddVertex calls for
// the endpoints, then one AddEdge. Its result is the number of edges fed.
func Feed[ID comparable](b graph.Builder[ID]) pipeline.Sink[*formats.Edge[ID], int64] {
	return pipeline.ForEach(func(e *formats.Edge[ID]) {
		b.AddVertex(e.Source)
		b.AddVertex(e.Target)
		b.AddEdge(e.Source, e.Target)
	})
}

// BuildGraph returns a sink factory that assembles edges into a new
// in-memory graph. Use it with [pipeline.Into].
func BuildGraph[ID comparable](directed bool) func() pipeline.Sink[*formats.Edge[ID], *graph.Graph[ID]] {
	return func() pipeline.Sink[*formats.Edge[ID], *graph.Graph[ID]] {
		return &graphSink[ID]{directed: directed}
	}
}

type graphSink[ID comparable] struct {
	pipeline.Sink[*formats.Edge[ID], int64]
	directed bool
	g        *graph.Graph[ID]
}

func (s *graphSink[ID]) Open(count int64) error {
	if s.Sink != nil {
		return errors.IllegalState("graph sink already open")
	}
	s.g = graph.New[ID](s.directed)
	s.Sink = Feed[ID](s.g)
	return s.Sink.Open(count)
}

func (s *graphSink[ID]) OnNext(index int64, e *formats.Edge[ID]) error {
	if s.Sink == nil {
		return errors.IllegalState("graph sink not open")
	}
	return s.Sink.OnNext(index, e)
}

func (s *graphSink[ID]) Close() error {
	if s.Sink == nil {
		return errors.IllegalState("graph sink not open")
	}
	return s.Sink.Close()
}

func (s *graphSink[ID]) Result() *graph.Graph[ID] { return s.g }

// Ingest reads every edge of src into a new graph, honoring ctx between
// buffer refills.
func Ingest[ID comparable](ctx context.Context, src source.Source[*formats.Edge[ID]], directed bool) (*graph.Graph[ID], error) {
	g := graph.New[ID](directed)
	t := src.Traverse()
	st, err := traverse.Run(t, traverse.WithContext(ctx, nil), func(e *formats.Edge[ID]) {
		g.AddVertex(e.Source)
		g.AddVertex(e.Target)
		g.AddEdge(e.Source, e.Target)
	})
	if err != nil {
		return nil, err
	}
	if st == traverse.Exit {
		return nil, ctx.Err()
	}
	return g, nil
}

// ToGraph returns a stage that ingests each descriptor it receives into a
// graph with string vertex ids. The graph is directed when the descriptor
// says so.
func ToGraph(ctx context.Context, opts formats.Options) pipeline.Stage[formats.Descriptor, *graph.Graph[string]] {
	return pipeline.StageFunc[formats.Descriptor, *graph.Graph[string]](func(out pipeline.Pipe[*graph.Graph[string]]) pipeline.Pipe[formats.Descriptor] {
		s := &ingestStage[string]{ctx: ctx, open: func(d formats.Descriptor) (source.Source[*formats.Edge[string]], bool) {
			return d.Edges(opts), d.Directed
		}}
		s.Bind(out)
		return s
	})
}

// MtxToUndirectedGraph returns a stage that ingests each Matrix Market
// descriptor into an undirected graph with integer vertex ids. Descriptors
// of other formats fail the run with UNSUPPORTED.
func MtxToUndirectedGraph(ctx context.Context, opts formats.Options) pipeline.Stage[formats.Descriptor, *graph.Graph[int64]] {
	return pipeline.StageFunc[formats.Descriptor, *graph.Graph[int64]](func(out pipeline.Pipe[*graph.Graph[int64]]) pipeline.Pipe[formats.Descriptor] {
		s := &ingestStage[int64]{ctx: ctx, open: func(d formats.Descriptor) (source.Source[*formats.Edge[int64]], bool) {
			return d.Int64Edges(opts), false
		}}
		s.Bind(out)
		return s
	})
}

type ingestStage[ID comparable] struct {
	pipeline.Transform[formats.Descriptor, *graph.Graph[ID]]
	ctx  context.Context
	open func(formats.Descriptor) (source.Source[*formats.Edge[ID]], bool)
}

func (s *ingestStage[ID]) OnNext(_ int64, d formats.Descriptor) error {
	if err := s.Ready(); err != nil {
		return err
	}
	src, directed := s.open(d)
	g, err := Ingest(s.ctx, src, directed)
	if err != nil {
		return err
	}
	return s.Yield(g)
}
