package operator

import (
	"cmp"
	"slices"

	"github.com/matzehuels/graphma/pkg/graph"
	"github.com/matzehuels/graphma/pkg/pipeline"
)

// Score is the degree of one vertex.
// Normalized is Degree / (n-1) for a graph of n vertices, or 0 when n < 2.
type Score[ID comparable] struct {
	Vertex     ID      `json:"vertex"`
	Degree     int     `json:"degree"`
	Normalized float64 `json:"normalized"`
}

// Centrality lists the scores of every vertex in graph order.
type Centrality[ID comparable] []Score[ID]

// Max returns the highest-degree score. The first vertex wins ties.
func (c Centrality[ID]) Max() (Score[ID], bool) {
	if len(c) == 0 {
		return Score[ID]{}, false
	}
	best := c[0]
	for _, s := range c[1:] {
		if s.Degree > best.Degree {
			best = s
		}
	}
	return best, true
}

// Top returns the n highest-degree scores, highest first. Ties keep graph
// order. A non-positive n returns every score.
func (c Centrality[ID]) Top(n int) Centrality[ID] {
	out := slices.Clone(c)
	slices.SortStableFunc(out, func(a, b Score[ID]) int { return cmp.Compare(b.Degree, a.Degree) })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Degrees computes the degree centrality of every vertex of g.
func Degrees[ID comparable](g graph.Degrees[ID]) Centrality[ID] {
	vs := g.Vertices()
	out := make(Centrality[ID], len(vs))
	for i, v := range vs {
		d := g.Degree(v)
		out[i] = Score[ID]{Vertex: v, Degree: d}
		if len(vs) > 1 {
			out[i].Normalized = float64(d) / float64(len(vs)-1)
		}
	}
	return out
}

// DegreeCentrality returns a stage mapping each graph to its degree
// centrality.
func DegreeCentrality[ID comparable, G graph.Degrees[ID]]() pipeline.Stage[G, Centrality[ID]] {
	return pipeline.Map(func(g G) Centrality[ID] { return Degrees[ID](g) })
}
