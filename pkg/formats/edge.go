package formats

import "fmt"

// Edge is a directed pair of vertex ids as written in the source file.
// Undirected dialects still report the endpoints in file order.
type Edge[ID comparable] struct {
	Source ID `json:"source"`
	Target ID `json:"target"`
}

func (e Edge[ID]) String() string {
	return fmt.Sprintf("(%v, %v)", e.Source, e.Target)
}

// Copy returns the value behind a borrowed cursor.
func Copy[ID comparable](e *Edge[ID]) Edge[ID] { return *e }
