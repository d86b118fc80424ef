// Package graph defines the boundary between edge ingestion and graph
// construction.
//
// Ingestion code only ever talks to two small capability interfaces:
//
//   - [Builder]: receives vertices and edges as they are parsed
//   - [Degrees]: answers degree queries once a graph is assembled
//
// Any graph library can sit behind them. [Graph] is the in-memory adjacency
// implementation used by the command line tool and the tests. It keeps
// vertices in insertion order, so output built from it is deterministic for
// a given input.
//
// # Building
//
//	g := graph.New[int64](false)
//	g.AddVertex(1)
//	g.AddVertex(2)
//	g.AddEdge(1, 2)
//	g.Degree(1) // 1
//
// AddVertex is idempotent. AddEdge adds missing endpoints, so a parser may
// emit edges without announcing vertices first.
//
// # Directedness
//
// A directed graph records each edge once, from source to target, and
// Degree is the sum of in- and out-degree. An undirected graph records the
// edge on both endpoints; a self-loop counts twice toward its vertex's
// degree, as in the usual handshake convention.
//
// # Concurrency
//
// Graph is not safe for concurrent writes. Reads after construction are safe.
package graph
