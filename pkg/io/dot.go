package io

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphma/pkg/graph"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Detailed adds each vertex degree to its label.
	// When false, only the vertex id is shown.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT source. Directed graphs become a
// digraph with "->" edges, undirected graphs a graph with "--" edges.
func ToDOT[ID comparable](g *graph.Graph[ID], opts DOTOptions) string {
	kind, op := "graph", "--"
	if g.Directed() {
		kind, op = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, v := range g.Vertices() {
		id := fmt.Sprint(v)
		label := id
		if opts.Detailed {
			label = fmt.Sprintf("%s\ndeg %d", id, g.Degree(v))
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, label)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q %s %q;\n", fmt.Sprint(e.From), op, fmt.Sprint(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// WriteDOT writes the DOT source of g to w.
func WriteDOT[ID comparable](g *graph.Graph[ID], w io.Writer, opts DOTOptions) error {
	if _, err := io.WriteString(w, ToDOT(g, opts)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportDOT writes the DOT source of g to a file at path.
func ExportDOT[ID comparable](g *graph.Graph[ID], path string, opts DOTOptions) error {
	return writeFile(path, func(w io.Writer) error { return WriteDOT(g, w, opts) })
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// ExportSVG renders g and writes the SVG to a file at path.
func ExportSVG[ID comparable](ctx context.Context, g *graph.Graph[ID], path string, opts DOTOptions) error {
	svg, err := RenderSVG(ctx, ToDOT(g, opts))
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		_, err := w.Write(svg)
		return err
	})
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag to a zero-origin viewBox with
// matching pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
