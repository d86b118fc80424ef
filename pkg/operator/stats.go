package operator

import (
	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/pipeline"
)

// Stats summarizes an edge stream.
type Stats struct {
	Edges      int64 `json:"edges"`
	Vertices   int64 `json:"vertices"`
	SelfLoops  int64 `json:"self_loops"`
	Duplicates int64 `json:"duplicates"` // repeated (source, target) pairs
}

// EdgeStats returns a sink computing [Stats] over edges. It keeps one copy
// of every distinct edge and vertex.
func EdgeStats[ID comparable]() pipeline.Sink[*formats.Edge[ID], Stats] {
	vertices := make(map[ID]struct{})
	seen := make(map[formats.Edge[ID]]struct{})
	return pipeline.Reduce(Stats{}, func(st Stats, e *formats.Edge[ID]) Stats {
		st.Edges++
		if e.Source == e.Target {
			st.SelfLoops++
		}
		for _, v := range [2]ID{e.Source, e.Target} {
			if _, ok := vertices[v]; !ok {
				vertices[v] = struct{}{}
				st.Vertices++
			}
		}
		key := formats.Copy(e)
		if _, ok := seen[key]; ok {
			st.Duplicates++
		} else {
			seen[key] = struct{}{}
		}
		return st
	})
}
