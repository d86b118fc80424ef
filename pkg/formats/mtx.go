package formats

import (
	"bytes"
	"io"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/index"
	"github.com/matzehuels/graphma/pkg/scan"
	"github.com/matzehuels/graphma/pkg/traverse"
)

// mtxReader reads matrix-market coordinate lines.
//
// The header is the first line that is neither blank nor a % comment and
// holds rows, columns and entries. Every following line is one entry with at
// least two integer fields; further fields such as weights are ignored.
type mtxReader struct {
	sc     *scan.Scanner
	fields [][]byte

	rows, cols, entries uint64
	symmetric           bool
}

var mtxBanner = []byte("%%MatrixMarket")

func readMtxHeader(sc *scan.Scanner) (*mtxReader, error) {
	r := &mtxReader{sc: sc}
	for {
		line, err := sc.NextLine()
		if err == io.EOF {
			// Nothing but comments: an empty matrix.
			return r, nil
		}
		if err != nil {
			return nil, err
		}
		if bytes.HasPrefix(line, mtxBanner) {
			r.symmetric = bytes.Contains(bytes.ToLower(line), []byte("symmetric"))
			continue
		}
		line = scan.TrimSpace(line)
		if len(line) == 0 || line[0] == '%' {
			continue
		}

		r.fields = scan.Fields(line, r.fields)
		if len(r.fields) < 3 {
			return nil, errors.Parse(sc.Line(), "header needs rows, columns and entries, got %d fields", len(r.fields))
		}
		dims := [3]*uint64{&r.rows, &r.cols, &r.entries}
		for i, dst := range dims {
			n, err := scan.ParseUint(r.fields[i])
			if err != nil {
				return nil, atLine(sc, err)
			}
			*dst = n
		}
		return r, nil
	}
}

func mtxHeader(sc *scan.Scanner) (recordReader[int64], uint64, error) {
	r, err := readMtxHeader(sc)
	if err != nil {
		return nil, 0, err
	}
	return r, r.entries, nil
}

func (r *mtxReader) next(e *Edge[int64]) (record, error) {
	line, err := r.sc.NextLine()
	if err == io.EOF {
		return recordEnd, errors.Parse(r.sc.Line(), "unexpected end of data, header declares %d entries", r.entries)
	}
	if err != nil {
		return recordEnd, err
	}
	r.fields = scan.Fields(line, r.fields)
	if len(r.fields) < 2 {
		return recordEnd, errors.Parse(r.sc.Line(), "entry needs source and target, got %d fields", len(r.fields))
	}
	src, err := scan.ParseInt(r.fields[0])
	if err != nil {
		return recordEnd, atLine(r.sc, err)
	}
	dst, err := scan.ParseInt(r.fields[1])
	if err != nil {
		return recordEnd, atLine(r.sc, err)
	}
	e.Source, e.Target = src, dst
	return recordEdge, nil
}

func (r *mtxReader) skipRecord() error {
	err := r.sc.AdvanceLine()
	if err == io.EOF {
		return errors.Parse(r.sc.Line(), "unexpected end of data, header declares %d entries", r.entries)
	}
	return err
}

// OpenMtx opens a matrix-market file and returns a traverser over the
// entries in rng, starting at max(pos, rng.Lo()). The window is clipped to
// the entry count declared in the header.
func OpenMtx(path string, rng index.Range, pos uint64, opts Options) (traverse.Traverser[*Edge[int64]], error) {
	return openRecords[int64](MTX, path, rng, pos, opts, mtxHeader)
}

func probeMtx(sc *scan.Scanner, d *Descriptor) error {
	r, err := readMtxHeader(sc)
	if err != nil {
		return err
	}
	d.Rows, d.Cols, d.Entries = r.rows, r.cols, r.entries
	d.Directed = !r.symmetric
	if r.entries == 0 {
		return nil
	}
	line, err := sc.NextLine()
	if err == io.EOF {
		return errors.Parse(sc.Line(), "header declares %d entries but body is empty", r.entries)
	}
	if err != nil {
		return err
	}
	d.TokensPerLine = len(scan.Fields(line, r.fields))
	return nil
}
