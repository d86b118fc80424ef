package graph

import (
	"slices"
)

// Builder receives the vertices and edges of a graph under construction.
type Builder[ID comparable] interface {
	AddVertex(id ID)
	AddEdge(src, dst ID)
}

// Degrees answers degree queries on an assembled graph.
type Degrees[ID comparable] interface {
	Vertices() []ID
	Degree(id ID) int
}

// Edge is a stored edge. For undirected graphs From and To keep the order in
// which the edge was added.
type Edge[ID comparable] struct {
	From ID
	To   ID
}

// Graph is an in-memory adjacency graph.
//
// The zero value is not usable; use New.
type Graph[ID comparable] struct {
	directed bool
	order    []ID
	index    map[ID]int
	edges    []Edge[ID]
	outgoing map[ID][]ID // vertex -> successors (neighbors when undirected)
	incoming map[ID][]ID // vertex -> predecessors, directed only
}

var (
	_ Builder[string] = (*Graph[string])(nil)
	_ Degrees[string] = (*Graph[string])(nil)
)

// New creates an empty graph.
func New[ID comparable](directed bool) *Graph[ID] {
	return &Graph[ID]{
		directed: directed,
		index:    make(map[ID]int),
		outgoing: make(map[ID][]ID),
		incoming: make(map[ID][]ID),
	}
}

// Directed reports whether edges have a direction.
func (g *Graph[ID]) Directed() bool { return g.directed }

// AddVertex adds id if it is not present yet.
func (g *Graph[ID]) AddVertex(id ID) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
}

// AddEdge adds an edge from src to dst, adding either endpoint if needed.
// Parallel edges are kept.
func (g *Graph[ID]) AddEdge(src, dst ID) {
	g.AddVertex(src)
	g.AddVertex(dst)
	g.edges = append(g.edges, Edge[ID]{From: src, To: dst})
	g.outgoing[src] = append(g.outgoing[src], dst)
	if g.directed {
		g.incoming[dst] = append(g.incoming[dst], src)
		return
	}
	g.outgoing[dst] = append(g.outgoing[dst], src)
}

// HasVertex reports whether id has been added.
func (g *Graph[ID]) HasVertex(id ID) bool {
	_, ok := g.index[id]
	return ok
}

// Vertices returns the vertices in insertion order.
// The returned slice is a copy.
func (g *Graph[ID]) Vertices() []ID { return slices.Clone(g.order) }

// Edges returns the edges in insertion order.
// The returned slice is a copy.
func (g *Graph[ID]) Edges() []Edge[ID] { return slices.Clone(g.edges) }

// VertexCount returns the number of vertices.
func (g *Graph[ID]) VertexCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph[ID]) EdgeCount() int { return len(g.edges) }

// Neighbors returns the successors of id, or its neighbors when the graph is
// undirected. The returned slice must not be modified.
func (g *Graph[ID]) Neighbors(id ID) []ID { return g.outgoing[id] }

// Predecessors returns the vertices with an edge into id. It is empty for
// undirected graphs.
func (g *Graph[ID]) Predecessors(id ID) []ID { return g.incoming[id] }

// OutDegree returns the number of edges leaving id. In an undirected graph
// it equals Degree.
func (g *Graph[ID]) OutDegree(id ID) int { return len(g.outgoing[id]) }

// InDegree returns the number of edges entering id. In an undirected graph
// it equals Degree.
func (g *Graph[ID]) InDegree(id ID) int {
	if !g.directed {
		return len(g.outgoing[id])
	}
	return len(g.incoming[id])
}

// Degree returns the number of edge endpoints at id. Unknown vertices have
// degree 0.
func (g *Graph[ID]) Degree(id ID) int {
	if !g.directed {
		return len(g.outgoing[id])
	}
	return len(g.outgoing[id]) + len(g.incoming[id])
}

// Sources returns vertices without incoming edges, in insertion order.
// For undirected graphs these are the isolated vertices.
func (g *Graph[ID]) Sources() []ID {
	var out []ID
	for _, id := range g.order {
		if g.InDegree(id) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Sinks returns vertices without outgoing edges, in insertion order.
func (g *Graph[ID]) Sinks() []ID {
	var out []ID
	for _, id := range g.order {
		if g.OutDegree(id) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// PosMap returns a map from vertex to its insertion position.
func (g *Graph[ID]) PosMap() map[ID]int {
	m := make(map[ID]int, len(g.index))
	for id, i := range g.index {
		m[id] = i
	}
	return m
}
