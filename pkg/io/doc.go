// Package io exports assembled graphs as JSON, Graphviz DOT and SVG, and
// reads the JSON form back.
//
// # JSON Format
//
// The format has a directedness flag and two arrays:
//
//	{
//	  "directed": false,
//	  "nodes": [
//	    {"id": 1, "degree": 2},
//	    {"id": 2, "degree": 1},
//	    {"id": 3, "degree": 1}
//	  ],
//	  "edges": [
//	    {"from": 1, "to": 2},
//	    {"from": 1, "to": 3}
//	  ]
//	}
//
// Node ids keep their Go type: integer graphs from Matrix Market files
// encode numbers, string graphs from DOT, GML and GraphML encode strings.
// Nodes are listed in graph insertion order and degree is informational;
// it is recomputed on import.
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	g, err := io.ImportJSON[int64]("web.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Edges may reference nodes that are not listed; they are added on import.
//
// # Export
//
// Use [ExportJSON] or [WriteJSON] for JSON, [ToDOT] for Graphviz source, and
// [RenderSVG] to lay the DOT source out with the bundled Graphviz:
//
//	dot := io.ToDOT(g, io.DOTOptions{Detailed: true})
//	svg, err := io.RenderSVG(ctx, dot)
//
// # Concurrency
//
// All functions in this package are safe to call concurrently with other
// readers of the same graph, but not with concurrent modifications to it.
package io
