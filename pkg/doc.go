// Package pkg provides the libraries behind graphma, a streaming reader for
// graph files.
//
// # Overview
//
// graphma reads Matrix Market, DOT, GML and GraphML files as resumable edge
// streams. A file is described once by its header, then traversed any number
// of times, in whole or over a window of its logical records, and the edges
// are pushed through composable pipelines into graphs, statistics or exports.
//
// The packages are organized in layers:
//
//  1. [scan] - buffered line and token scanning over a file
//  2. [traverse] - the pull protocol shared by every stream
//  3. [formats] - the four dialect readers and file descriptors
//  4. [source] - reusable sources and parallel partitions
//  5. [pipeline] - stage/sink composition and evaluation
//  6. [operator], [graph], [io] - graph building, centrality and export
//  7. [catalog], [cache] - directory scans with cached headers
//
// # Architecture
//
// The typical data flow:
//
//	graph file
//	     ↓
//	[formats] ReadHeader → Descriptor
//	     ↓
//	[formats] EdgeSource (window, resume position)
//	     ↓
//	[pipeline] stages (Filter, Map, Limit, ...)
//	     ↓
//	[operator] sinks (BuildGraph, EdgeStats) → [graph] → [io] JSON/DOT/SVG
//
// # Quick Start
//
// Count the self-loops of a Matrix Market file:
//
//	desc, _ := formats.ReadHeader("web.mtx", "")
//	loops, _ := pipeline.Compose(
//	    pipeline.Into(pipeline.Count[*formats.Edge[int64]]),
//	    pipeline.Filter(func(e *formats.Edge[int64]) bool { return e.Source == e.Target }),
//	).Apply(desc.Int64Edges(formats.Options{}), pipeline.Options{}).Evaluate(ctx)
//
// Rank every graph under a directory by degree:
//
//	cat, _ := catalog.NewProber(nil, nil, nil).Scan(ctx, "data", catalog.Options{})
//	chain := pipeline.Compose(
//	    pipeline.Compose(
//	        pipeline.Into(pipeline.Collect[operator.Centrality[string]]),
//	        operator.DegreeCentrality[string, *graph.Graph[string]](),
//	    ),
//	    operator.ToGraph(ctx, formats.Options{}),
//	)
//	rankings, _ := chain.Apply(cat, pipeline.Options{}).Evaluate(ctx)
//
// # Cross-cutting Packages
//
// [errors] - Coded errors (PARSE_ERROR, MISSING_SOURCE, ILLEGAL_STATE, ...)
// and input validation shared by every layer.
//
// [observability] - Optional hooks for traversal, pipeline and cache events.
//
// [buildinfo] - Version information for the CLI.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/formats/...            # Specific package
//	GRAPHMA_TEST_REDIS=localhost:6379 go test ./pkg/cache/...
//
// [scan]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/scan
// [traverse]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/traverse
// [formats]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/formats
// [source]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/source
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/pipeline
// [operator]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/operator
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/graph
// [io]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/io
// [catalog]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/catalog
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/graphma/pkg/buildinfo
package pkg
