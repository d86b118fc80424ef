package formats

import (
	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/index"
	"github.com/matzehuels/graphma/pkg/scan"
	"github.com/matzehuels/graphma/pkg/traverse"
)

// Descriptor is the metadata read once from a file header. It owns no open
// resource and can be shared freely and traversed any number of times.
//
// Entries is the number of logical records: MTX entries, DOT body lines, or
// GML/GraphML edges. It may be an upper bound when supplied by hand.
type Descriptor struct {
	Path          string `json:"path"`
	Format        Format `json:"format"`
	Rows          uint64 `json:"rows,omitempty"`
	Cols          uint64 `json:"cols,omitempty"`
	Entries       uint64 `json:"entries"`
	TokensPerLine int    `json:"tokens_per_line,omitempty"`
	Directed      bool   `json:"directed"`
}

// Window returns the range covering every declared record.
func (d Descriptor) Window() index.Range { return index.Of(0, d.Entries) }

// ReadHeader probes the file at path and describes it. An empty format is
// inferred from the extension. Unlike the traversers, a missing file is
// always an error here.
func ReadHeader(path string, format Format) (Descriptor, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Descriptor{}, err
	}
	if format == "" {
		f, err := DetectFormat(path)
		if err != nil {
			return Descriptor{}, err
		}
		format = f
	}

	probe, err := prober(format)
	if err != nil {
		return Descriptor{}, err
	}
	sc, err := scan.Open(path, scan.DefaultBufferSize)
	if err != nil {
		return Descriptor{}, err
	}
	defer sc.Close()

	d := Descriptor{Path: path, Format: format}
	if err := probe(sc, &d); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

func prober(format Format) (func(*scan.Scanner, *Descriptor) error, error) {
	switch format {
	case MTX:
		return probeMtx, nil
	case DOT:
		return probeDot, nil
	case GML:
		return probeGML, nil
	case GraphML:
		return probeGraphML, nil
	}
	return nil, errors.ValidateFormat(string(format))
}

// Open returns a traverser over desc with ids as strings, whatever the
// dialect. MTX ids are formatted in base 10.
func Open(desc Descriptor, rng index.Range, pos uint64, opts Options) (traverse.Traverser[*Edge[string]], error) {
	switch desc.Format {
	case MTX:
		t, err := OpenMtx(desc.Path, rng, pos, opts)
		if err != nil {
			return nil, err
		}
		return convert(t, formatID), nil
	case DOT:
		return OpenDot(desc.Path, rng, pos, opts)
	case GML:
		return OpenGML(desc.Path, rng, pos, opts)
	case GraphML:
		return OpenGraphML(desc.Path, rng, pos, opts)
	}
	return nil, errors.ValidateFormat(string(desc.Format))
}

// OpenInt64 returns a traverser over desc with integer ids. Only MTX
// carries integer ids; other dialects are UNSUPPORTED.
func OpenInt64(desc Descriptor, rng index.Range, pos uint64, opts Options) (traverse.Traverser[*Edge[int64]], error) {
	if desc.Format != MTX {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s ids are not integers", desc.Format)
	}
	return OpenMtx(desc.Path, rng, pos, opts)
}

// EdgeSource reopens its descriptor on every Traverse call, so a pipeline
// can be evaluated against it more than once.
type EdgeSource[ID comparable] struct {
	Desc  Descriptor
	Range index.Range
	Pos   uint64
	Opts  Options

	open func(Descriptor, index.Range, uint64, Options) (traverse.Traverser[*Edge[ID]], error)
}

// Edges returns a source of string edges over the whole file.
func (d Descriptor) Edges(opts Options) EdgeSource[string] {
	return EdgeSource[string]{Desc: d, Range: index.All(), Opts: opts, open: Open}
}

// Int64Edges returns a source of integer edges over the whole file.
func (d Descriptor) Int64Edges(opts Options) EdgeSource[int64] {
	return EdgeSource[int64]{Desc: d, Range: index.All(), Opts: opts, open: OpenInt64}
}

// In returns a copy of s bounded to rng.
func (s EdgeSource[ID]) In(rng index.Range) EdgeSource[ID] {
	s.Range = rng
	return s
}

// From returns a copy of s that starts at pos.
func (s EdgeSource[ID]) From(pos uint64) EdgeSource[ID] {
	s.Pos = pos
	return s
}

// Traverse opens a fresh traverser. Open failures surface on its first call.
func (s EdgeSource[ID]) Traverse() traverse.Traverser[*Edge[ID]] {
	t, err := s.open(s.Desc, s.Range, s.Pos, s.Opts)
	if err != nil {
		return traverse.Failed[*Edge[ID]](err)
	}
	return t
}
