// Package formats parses plain-text edge-list dialects into edge streams.
//
// Four dialects are supported:
//
//   - MTX: matrix-market coordinate files. Ids are 64-bit integers.
//   - DOT: the Graphviz subset with one `a -> b;` or `a -- b;` edge per line.
//   - GML: `edge [ source 1 target 2 ]` blocks inside a `graph [ ... ]` block.
//   - GraphML: `<edge source="a" target="b"/>` elements inside `<graph>`.
//
// Every dialect is read through a [scan.Scanner] in two phases: a header
// phase run when the traverser is opened, then a body phase that yields one
// edge per record. All dialects share one traverser implementation; only the
// record readers differ.
//
// # Windows and positions
//
// Traversers are bounded by an [index.Range] over logical record indices and
// may start at a later position inside it. The logical index is the data line
// for MTX, the body line for DOT and the edge ordinal for GML and GraphML.
// Traversers over disjoint ranges of one file never yield the same record, so
// a file can be split across goroutines, each with its own traverser.
//
// # Cursor reuse
//
// A traverser owns exactly one [Edge] and passes a pointer to it to every
// callback. The pointer is only valid during the callback; copy the value
// (e := *edge) to keep it.
//
// # Missing sources
//
// A missing file or an empty range yields an empty traverser and a warning
// in the log. Set [Options.Strict] to get a MISSING_SOURCE error instead.
package formats
