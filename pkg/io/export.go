package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphma/pkg/graph"
)

type document[ID comparable] struct {
	Directed bool       `json:"directed"`
	Nodes    []node[ID] `json:"nodes"`
	Edges    []edge[ID] `json:"edges"`
}

type node[ID comparable] struct {
	ID     ID  `json:"id"`
	Degree int `json:"degree,omitempty"`
}

type edge[ID comparable] struct {
	From ID `json:"from"`
	To   ID `json:"to"`
}

// WriteJSON encodes a graph as JSON and writes it to w.
// This format can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON[ID comparable](g *graph.Graph[ID], w io.Writer) error {
	vs := g.Vertices()
	es := g.Edges()
	out := document[ID]{
		Directed: g.Directed(),
		Nodes:    make([]node[ID], len(vs)),
		Edges:    make([]edge[ID], len(es)),
	}
	for i, v := range vs {
		out.Nodes[i] = node[ID]{ID: v, Degree: g.Degree(v)}
	}
	for i, e := range es {
		out.Edges[i] = edge[ID]{From: e.From, To: e.To}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON[ID comparable](g *graph.Graph[ID], path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(g, w) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
