package formats

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/index"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a/b.mtx", MTX, false},
		{"g.DOT", DOT, false},
		{"g.gv", DOT, false},
		{"g.gml", GML, false},
		{"g.graphml", GraphML, false},
		{"g.xml", GraphML, false},
		{"g.csv", "", true},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestReadHeader(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    Descriptor
	}{
		{
			name:    "mtx general",
			file:    "small.mtx",
			content: smallMtx,
			want:    Descriptor{Format: MTX, Rows: 3, Cols: 3, Entries: 2, TokensPerLine: 2, Directed: true},
		},
		{
			name:    "mtx symmetric weighted",
			file:    "sym.mtx",
			content: "%%MatrixMarket matrix coordinate real symmetric\n4 4 1\n2 1 0.25\n",
			want:    Descriptor{Format: MTX, Rows: 4, Cols: 4, Entries: 1, TokensPerLine: 3},
		},
		{
			name:    "dot",
			file:    "deps.dot",
			content: sampleDot,
			want:    Descriptor{Format: DOT, Entries: 7, Directed: true},
		},
		{
			name:    "gml",
			file:    "g.gml",
			content: sampleGML,
			want:    Descriptor{Format: GML, Entries: 4, Directed: true},
		},
		{
			name:    "graphml",
			file:    "g.graphml",
			content: sampleGraphML,
			want:    Descriptor{Format: GraphML, Entries: 3, Directed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, tt.file, tt.content)
			got, err := ReadHeader(path, "")
			if err != nil {
				t.Fatal(err)
			}
			tt.want.Path = path
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadHeaderMissing(t *testing.T) {
	_, err := ReadHeader(t.TempDir()+"/absent.mtx", MTX)
	if !errors.Is(err, errors.ErrCodeMissingSource) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeMissingSource)
	}
}

func TestOpenFormatsMtxIDs(t *testing.T) {
	path := writeFixture(t, "small.mtx", smallMtx)
	desc := Descriptor{Path: path, Format: MTX, Entries: 2}
	tr, err := Open(desc, index.All(), 0, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got, err := collectStrings(tr)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Edge[string]{{"1", "2"}, {"2", "3"}}, got); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenInt64Unsupported(t *testing.T) {
	_, err := OpenInt64(Descriptor{Path: "g.dot", Format: DOT}, index.All(), 0, Options{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeUnsupported)
	}
}

func TestEdgeSourceRetraversable(t *testing.T) {
	path := writeFixture(t, "small.mtx", smallMtx)
	src := Descriptor{Path: path, Format: MTX, Entries: 2}.Int64Edges(Options{})

	for i := 0; i < 2; i++ {
		if edges := collect(t, src.Traverse()); len(edges) != 2 {
			t.Errorf("pass %d: got %d edges, want 2", i, len(edges))
		}
	}
	if edges := collect(t, src.In(index.Of(1, 2)).Traverse()); len(edges) != 1 {
		t.Errorf("windowed source: got %v", edges)
	}

	bad := Descriptor{Path: path, Format: "csv"}.Edges(Options{})
	if err := bad.Traverse().Drain(func(*Edge[string]) {}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
}

func collectStrings(tr interface {
	Drain(func(*Edge[string])) error
}) ([]Edge[string], error) {
	var out []Edge[string]
	err := tr.Drain(func(e *Edge[string]) { out = append(out, *e) })
	return out, err
}
