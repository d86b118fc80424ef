package formats

import (
	"bytes"
	"io"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/index"
	"github.com/matzehuels/graphma/pkg/scan"
	"github.com/matzehuels/graphma/pkg/traverse"
)

type gmlKey int

const (
	gmlNone gmlKey = iota
	gmlOther
	gmlEdge
	gmlSource
	gmlTarget
	gmlDirected
)

// gmlReader walks the key/value tokens of a GML graph block. Each edge block
// is one record. Blocks may span lines, share a line, and nest.
type gmlReader struct {
	sc   *scan.Scanner
	rest []byte // unconsumed part of the current line

	depth   int // nesting below the graph block
	pending gmlKey
	inEdge  bool
	src     []byte
	dst     []byte
	hasSrc  bool
	hasDst  bool
	edgeAt  uint64 // line the current edge block opened on

	directed bool
	ended    bool
}

var (
	tokOpen  = []byte("[")
	tokClose = []byte("]")
)

// token returns the next GML token. Brackets are tokens of their own and a
// quoted string is a single token. Lines starting with # are comments.
func (r *gmlReader) token() ([]byte, error) {
	for {
		r.rest = scan.TrimSpace(r.rest)
		if len(r.rest) == 0 {
			line, err := r.sc.NextLine()
			if err != nil {
				return nil, err
			}
			r.rest = line
			continue
		}
		switch r.rest[0] {
		case '[', ']':
			tok := r.rest[:1]
			r.rest = r.rest[1:]
			return tok, nil
		case '"':
			j := bytes.IndexByte(r.rest[1:], '"')
			if j < 0 {
				tok := r.rest
				r.rest = nil
				return tok, nil
			}
			tok := r.rest[:j+2]
			r.rest = r.rest[j+2:]
			return tok, nil
		case '#':
			r.rest = nil
			continue
		}
		i := 0
		for i < len(r.rest) {
			c := r.rest[i]
			if c == ' ' || c == '\t' || c == '[' || c == ']' {
				break
			}
			i++
		}
		tok := r.rest[:i]
		r.rest = r.rest[i:]
		return tok, nil
	}
}

// readGMLHeader consumes tokens up to and including the `graph [` opener.
func readGMLHeader(sc *scan.Scanner) (*gmlReader, error) {
	r := &gmlReader{sc: sc}
	seen := false
	prevGraph := false
	outer := 0 // depth of top-level blocks other than graph
	for {
		tok, err := r.token()
		if err == io.EOF {
			if seen {
				return nil, errors.Parse(sc.Line(), "no graph block")
			}
			r.ended = true
			return r, nil
		}
		if err != nil {
			return nil, err
		}
		seen = true
		switch {
		case bytes.Equal(tok, tokOpen):
			if prevGraph && outer == 0 {
				return r, nil
			}
			outer++
		case bytes.Equal(tok, tokClose):
			if outer == 0 {
				return nil, errors.IllegalState("line %d: ']' closes no block", sc.Line())
			}
			outer--
		}
		prevGraph = bytes.Equal(tok, []byte("graph"))
	}
}

func gmlHeader(sc *scan.Scanner) (recordReader[string], uint64, error) {
	r, err := readGMLHeader(sc)
	if err != nil {
		return nil, 0, err
	}
	return r, noLimit, nil
}

func (r *gmlReader) classify(tok []byte) gmlKey {
	switch {
	case r.depth == 0 && bytes.Equal(tok, []byte("edge")):
		return gmlEdge
	case r.depth == 0 && bytes.Equal(tok, []byte("directed")):
		return gmlDirected
	case r.inEdge && r.depth == 1 && bytes.Equal(tok, []byte("source")):
		return gmlSource
	case r.inEdge && r.depth == 1 && bytes.Equal(tok, []byte("target")):
		return gmlTarget
	}
	return gmlOther
}

func (r *gmlReader) next(e *Edge[string]) (record, error) {
	if r.ended {
		return recordEnd, nil
	}
	for {
		tok, err := r.token()
		if err == io.EOF {
			return recordEnd, errors.Parse(r.sc.Line(), "graph block is not closed")
		}
		if err != nil {
			return recordEnd, err
		}

		if key := r.pending; key != gmlNone {
			r.pending = gmlNone
			switch {
			case bytes.Equal(tok, tokOpen):
				r.depth++
				if key == gmlEdge && r.depth == 1 {
					r.inEdge = true
					r.hasSrc, r.hasDst = false, false
					r.edgeAt = r.sc.Line()
				}
			case bytes.Equal(tok, tokClose):
				return recordEnd, errors.Parse(r.sc.Line(), "key without value")
			case key == gmlSource:
				r.src, r.hasSrc = append(r.src[:0], tok...), true
			case key == gmlTarget:
				r.dst, r.hasDst = append(r.dst[:0], tok...), true
			case key == gmlDirected:
				r.directed = bytes.Equal(tok, []byte("1"))
			}
			continue
		}

		switch {
		case bytes.Equal(tok, tokClose):
			if r.depth == 0 {
				r.ended = true
				return recordEnd, nil
			}
			r.depth--
			if r.inEdge && r.depth == 0 {
				r.inEdge = false
				return r.emit(e)
			}
		case bytes.Equal(tok, tokOpen):
			return recordEnd, errors.Parse(r.sc.Line(), "block without key")
		default:
			r.pending = r.classify(tok)
		}
	}
}

func (r *gmlReader) emit(e *Edge[string]) (record, error) {
	if !r.hasSrc || !r.hasDst {
		return recordEnd, errors.Parse(r.edgeAt, "edge block needs source and target")
	}
	if _, err := scan.ParseInt(r.src); err != nil {
		return recordEnd, errors.Parse(r.edgeAt, "source: %s", errors.UserMessage(err))
	}
	if _, err := scan.ParseInt(r.dst); err != nil {
		return recordEnd, errors.Parse(r.edgeAt, "target: %s", errors.UserMessage(err))
	}
	e.Source, e.Target = string(r.src), string(r.dst)
	return recordEdge, nil
}

// OpenGML opens a GML file and returns a traverser over the edge blocks in
// rng, starting at max(pos, rng.Lo()).
func OpenGML(path string, rng index.Range, pos uint64, opts Options) (traverse.Traverser[*Edge[string]], error) {
	return openRecords[string](GML, path, rng, pos, opts, gmlHeader)
}

func probeGML(sc *scan.Scanner, d *Descriptor) error {
	r, err := readGMLHeader(sc)
	if err != nil {
		return err
	}
	var e Edge[string]
	for {
		rec, err := r.next(&e)
		if err != nil {
			return err
		}
		if rec == recordEnd {
			d.Directed = r.directed
			return nil
		}
		d.Entries++
	}
}
