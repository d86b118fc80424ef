package formats

import (
	"bytes"
	"io"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/index"
	"github.com/matzehuels/graphma/pkg/scan"
	"github.com/matzehuels/graphma/pkg/traverse"
)

var (
	dotDirected   = []byte("->")
	dotUndirected = []byte("--")
)

// dotReader reads the edge statements of a DOT graph, one per line. Each
// body line is one record; lines that are not `a -> b [attrs];` statements
// are skipped records.
type dotReader struct {
	sc       *scan.Scanner
	op       []byte
	directed bool
	strict   bool
	empty    bool
}

func readDotHeader(sc *scan.Scanner) (*dotReader, error) {
	r := &dotReader{sc: sc}
	for {
		line, err := sc.NextLine()
		if err == io.EOF {
			r.empty = true
			return r, nil
		}
		if err != nil {
			return nil, err
		}
		line = scan.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' || bytes.HasPrefix(line, []byte("//")) {
			continue
		}

		word, rest := dotKeyword(line)
		if bytes.EqualFold(word, []byte("strict")) {
			r.strict = true
			word, _ = dotKeyword(scan.TrimSpace(rest))
		}
		switch {
		case bytes.EqualFold(word, []byte("digraph")):
			r.directed, r.op = true, dotDirected
		case bytes.EqualFold(word, []byte("graph")):
			r.op = dotUndirected
		default:
			return nil, errors.Parse(sc.Line(), "expected graph or digraph, got %q", line)
		}
		return r, nil
	}
}

// dotKeyword splits the leading run of letters off b.
func dotKeyword(b []byte) (word, rest []byte) {
	i := 0
	for i < len(b) && (b[i]|0x20 >= 'a' && b[i]|0x20 <= 'z') {
		i++
	}
	return b[:i], b[i:]
}

func dotHeader(sc *scan.Scanner) (recordReader[string], uint64, error) {
	r, err := readDotHeader(sc)
	if err != nil {
		return nil, 0, err
	}
	if r.empty {
		return r, 0, nil
	}
	return r, noLimit, nil
}

func (r *dotReader) next(e *Edge[string]) (record, error) {
	line, err := r.sc.NextLine()
	if err == io.EOF {
		return recordEnd, nil
	}
	if err != nil {
		return recordEnd, err
	}
	line = scan.TrimSpace(line)
	if len(line) > 0 && line[0] == '}' {
		return recordEnd, nil
	}
	src, dst, ok := parseDotEdge(line, r.op)
	if !ok {
		return recordSkip, nil
	}
	e.Source, e.Target = string(src), string(dst)
	return recordEdge, nil
}

// parseDotEdge matches `<token> <op> <token> [attrs] ;`.
func parseDotEdge(line, op []byte) (src, dst []byte, ok bool) {
	if len(line) == 0 || line[len(line)-1] != ';' {
		return nil, nil, false
	}
	body := scan.TrimSpace(line[:len(line)-1])

	src, rest, ok := dotToken(body)
	if !ok {
		return nil, nil, false
	}
	rest = scan.TrimSpace(rest)
	if !bytes.HasPrefix(rest, op) {
		return nil, nil, false
	}
	dst, rest, ok = dotToken(scan.TrimSpace(rest[len(op):]))
	if !ok {
		return nil, nil, false
	}
	rest = scan.TrimSpace(rest)
	if len(rest) > 0 && (rest[0] != '[' || rest[len(rest)-1] != ']') {
		return nil, nil, false
	}
	return src, dst, true
}

// dotToken reads one id, quoted or bare, from the start of b.
func dotToken(b []byte) (tok, rest []byte, ok bool) {
	if len(b) == 0 {
		return nil, nil, false
	}
	if b[0] == '"' {
		j := bytes.IndexByte(b[1:], '"')
		if j < 0 {
			return nil, nil, false
		}
		return b[1 : 1+j], b[2+j:], true
	}
	i := 0
	for ; i < len(b); i++ {
		c := b[i]
		if c == ' ' || c == '\t' || c == '[' || c == ';' {
			break
		}
		if c == '-' && i > 0 && i+1 < len(b) && (b[i+1] == '>' || b[i+1] == '-') {
			break
		}
	}
	if i == 0 {
		return nil, nil, false
	}
	return b[:i], b[i:], true
}

// OpenDot opens a DOT file and returns a traverser over the body lines in
// rng, starting at max(pos, rng.Lo()).
func OpenDot(path string, rng index.Range, pos uint64, opts Options) (traverse.Traverser[*Edge[string]], error) {
	return openRecords[string](DOT, path, rng, pos, opts, dotHeader)
}

func probeDot(sc *scan.Scanner, d *Descriptor) error {
	r, err := readDotHeader(sc)
	if err != nil {
		return err
	}
	d.Directed = r.directed
	if r.empty {
		return nil
	}
	// Entries counts body lines, the unit DOT windows are expressed in.
	var e Edge[string]
	for {
		rec, err := r.next(&e)
		if err != nil {
			return err
		}
		if rec == recordEnd {
			return nil
		}
		d.Entries++
	}
}
