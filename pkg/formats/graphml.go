package formats

import (
	"bytes"
	"io"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/index"
	"github.com/matzehuels/graphma/pkg/scan"
	"github.com/matzehuels/graphma/pkg/traverse"
)

// graphmlReader walks the markup of a GraphML document element by element.
// Each <edge> element is one record; everything else is discarded.
type graphmlReader struct {
	sc   *scan.Scanner
	rest []byte
	tag  []byte // current element without its angle brackets

	depth    int // open <graph> elements
	inEdge   bool
	src, dst string

	directed bool
	ended    bool
}

var (
	commentOpen  = []byte("!--")
	commentClose = []byte("-->")
)

// element returns the next element with its angle brackets removed. Text
// between elements and comments are dropped; an element spanning several
// lines is joined with spaces.
func (r *graphmlReader) element() ([]byte, error) {
	r.tag = r.tag[:0]
	inTag := false
	var quote byte
	for {
		if len(r.rest) == 0 {
			line, err := r.sc.NextLine()
			if err == io.EOF && inTag {
				return nil, errors.Parse(r.sc.Line(), "unterminated element")
			}
			if err != nil {
				return nil, err
			}
			r.rest = line
			if inTag {
				r.tag = append(r.tag, ' ')
			}
			continue
		}
		if !inTag {
			i := bytes.IndexByte(r.rest, '<')
			if i < 0 {
				r.rest = nil
				continue
			}
			r.rest = r.rest[i+1:]
			if bytes.HasPrefix(r.rest, commentOpen) {
				if err := r.skipComment(); err != nil {
					return nil, err
				}
				continue
			}
			inTag = true
			continue
		}
		for i, c := range r.rest {
			switch {
			case quote != 0:
				if c == quote {
					quote = 0
				}
			case c == '"' || c == '\'':
				quote = c
			case c == '>':
				r.tag = append(r.tag, r.rest[:i]...)
				r.rest = r.rest[i+1:]
				return r.tag, nil
			}
		}
		r.tag = append(r.tag, r.rest...)
		r.rest = nil
	}
}

func (r *graphmlReader) skipComment() error {
	for {
		if i := bytes.Index(r.rest, commentClose); i >= 0 {
			r.rest = r.rest[i+len(commentClose):]
			return nil
		}
		line, err := r.sc.NextLine()
		if err == io.EOF {
			return errors.Parse(r.sc.Line(), "unterminated comment")
		}
		if err != nil {
			return err
		}
		r.rest = line
	}
}

// elementName returns the element name and whether tag is a closing tag.
func elementName(tag []byte) (name []byte, closing bool) {
	if len(tag) > 0 && tag[0] == '/' {
		closing = true
		tag = tag[1:]
	}
	i := 0
	for i < len(tag) && tag[i] != ' ' && tag[i] != '\t' && tag[i] != '/' {
		i++
	}
	return tag[:i], closing
}

func selfClosing(tag []byte) bool {
	return len(tag) > 0 && tag[len(tag)-1] == '/'
}

// attr extracts the value of name="..." or name='...' from tag.
func attr(tag []byte, name string) (string, bool) {
	key := []byte(name)
	for i := 0; ; {
		j := bytes.Index(tag[i:], key)
		if j < 0 {
			return "", false
		}
		j += i
		i = j + len(key)
		if j == 0 || (tag[j-1] != ' ' && tag[j-1] != '\t') {
			continue
		}
		rest := scan.TrimSpace(tag[i:])
		if len(rest) == 0 || rest[0] != '=' {
			continue
		}
		rest = scan.TrimSpace(rest[1:])
		if len(rest) == 0 || (rest[0] != '"' && rest[0] != '\'') {
			continue
		}
		k := bytes.IndexByte(rest[1:], rest[0])
		if k < 0 {
			return "", false
		}
		return string(rest[1 : 1+k]), true
	}
}

var graphName = []byte("graph")

// readGraphMLHeader consumes elements up to and including the first <graph>.
func readGraphMLHeader(sc *scan.Scanner) (*graphmlReader, error) {
	r := &graphmlReader{sc: sc}
	seen := false
	for {
		tag, err := r.element()
		if err == io.EOF {
			if seen {
				return nil, errors.Parse(sc.Line(), "no <graph> element")
			}
			r.ended = true
			return r, nil
		}
		if err != nil {
			return nil, err
		}
		seen = true
		name, closing := elementName(tag)
		if !bytes.Equal(name, graphName) {
			continue
		}
		if closing {
			return nil, errors.IllegalState("line %d: </graph> closes no graph", sc.Line())
		}
		def, _ := attr(tag, "edgedefault")
		r.directed = def == "directed"
		if selfClosing(tag) {
			r.ended = true
		}
		r.depth = 1
		return r, nil
	}
}

func graphmlHeader(sc *scan.Scanner) (recordReader[string], uint64, error) {
	r, err := readGraphMLHeader(sc)
	if err != nil {
		return nil, 0, err
	}
	return r, noLimit, nil
}

func (r *graphmlReader) next(e *Edge[string]) (record, error) {
	if r.ended {
		return recordEnd, nil
	}
	for {
		tag, err := r.element()
		if err == io.EOF {
			return recordEnd, errors.Parse(r.sc.Line(), "<graph> element is not closed")
		}
		if err != nil {
			return recordEnd, err
		}
		name, closing := elementName(tag)
		switch {
		case bytes.Equal(name, graphName):
			if closing {
				r.depth--
			} else if !selfClosing(tag) {
				r.depth++
			}
			if r.depth == 0 {
				r.ended = true
				return recordEnd, nil
			}

		case bytes.Equal(name, []byte("edge")) && !closing:
			src, ok := attr(tag, "source")
			if !ok {
				return recordEnd, errors.Parse(r.sc.Line(), "edge without source attribute")
			}
			dst, ok := attr(tag, "target")
			if !ok {
				return recordEnd, errors.Parse(r.sc.Line(), "edge without target attribute")
			}
			if selfClosing(tag) {
				e.Source, e.Target = src, dst
				return recordEdge, nil
			}
			r.inEdge, r.src, r.dst = true, src, dst

		case bytes.Equal(name, []byte("edge")):
			if !r.inEdge {
				return recordEnd, errors.IllegalState("line %d: </edge> closes no edge", r.sc.Line())
			}
			r.inEdge = false
			e.Source, e.Target = r.src, r.dst
			return recordEdge, nil
		}
	}
}

// OpenGraphML opens a GraphML file and returns a traverser over the edge
// elements in rng, starting at max(pos, rng.Lo()).
func OpenGraphML(path string, rng index.Range, pos uint64, opts Options) (traverse.Traverser[*Edge[string]], error) {
	return openRecords[string](GraphML, path, rng, pos, opts, graphmlHeader)
}

func probeGraphML(sc *scan.Scanner, d *Descriptor) error {
	r, err := readGraphMLHeader(sc)
	if err != nil {
		return err
	}
	d.Directed = r.directed
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
