package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphma/pkg/graph"
)

// ReadJSON decodes a JSON graph from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays and may
// carry a "directed" flag (default false). Node order is preserved; edges
// may introduce nodes that are not listed. ReadJSON does not close r.
func ReadJSON[ID comparable](r io.Reader) (*graph.Graph[ID], error) {
	var data document[ID]
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := graph.New[ID](data.Directed)
	for _, n := range data.Nodes {
		g.AddVertex(n.ID)
	}
	for _, e := range data.Edges {
		g.AddEdge(e.From, e.To)
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON[ID comparable](path string) (*graph.Graph[ID], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON[ID](f)
}
