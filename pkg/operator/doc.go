// Package operator provides pipeline stages and sinks that turn ingested
// edges into graphs and graphs into measurements.
//
// The building blocks compose with [pipeline.Compose]:
//
//	chain := pipeline.Compose(
//	    pipeline.Into(pipeline.Collect[operator.Centrality[int64]]),
//	    operator.DegreeCentrality[int64, *graph.Graph[int64]](),
//	)
//	chain = pipeline.Compose(chain, operator.MtxToUndirectedGraph(ctx, formats.Options{}))
//	scores, err := chain.Apply(catalog, pipeline.Options{}).Evaluate(ctx)
//
// Edge sinks such as [BuildGraph] and [EdgeStats] copy every borrowed edge
// cursor before keeping it, so they can sit directly behind a format
// traverser.
package operator
