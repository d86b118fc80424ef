package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/graphma/pkg/cache"
	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/operator"
	"github.com/matzehuels/graphma/pkg/pipeline"
)

const (
	smallMtx = "%%MatrixMarket matrix coordinate pattern general\n3 3 2\n1 2\n2 3\n"
	chainDot = "digraph g {\n  a -> b;\n  b -> c;\n  a -> b;\n}\n"
	loopGML  = "graph [\n  edge [ source 1 target 1 ]\n]\n"
)

// writeTree creates files relative to a temp dir and returns the dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func names(c *Catalog) []string {
	var out []string
	for _, d := range c.Entries {
		rel, _ := filepath.Rel(c.Root, d.Path)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestScan(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.mtx":          smallMtx,
		"a.dot":          chainDot,
		"notes.txt":      "ignored",
		"sub/c.gml":      loopGML,
		".hidden/d.gml":  loopGML,
		"sub/deep/e.mtx": smallMtx,
	})

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"flat", Options{}, []string{"a.dot", "b.mtx"}},
		{"recursive", Options{Recursive: true}, []string{"a.dot", "b.mtx", "sub/c.gml", "sub/deep/e.mtx"}},
		{"filtered", Options{Recursive: true, Formats: []formats.Format{formats.MTX}}, []string{"b.mtx", "sub/deep/e.mtx"}},
		{"single worker", Options{Workers: 1}, []string{"a.dot", "b.mtx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := NewProber(nil, nil, nil).Scan(context.Background(), root, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, names(cat)); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanDescriptors(t *testing.T) {
	root := writeTree(t, map[string]string{"b.mtx": smallMtx})
	cat, err := NewProber(nil, nil, nil).Scan(context.Background(), root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := formats.Descriptor{
		Path:          filepath.Join(root, "b.mtx"),
		Format:        formats.MTX,
		Rows:          3,
		Cols:          3,
		Entries:       2,
		TokensPerLine: 2,
		Directed:      true,
	}
	if diff := cmp.Diff([]formats.Descriptor{want}, cat.Entries); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
	if d, ok := cat.Lookup("b.mtx"); !ok || d != want {
		t.Errorf("Lookup(b.mtx) = %+v, %v", d, ok)
	}
	if _, ok := cat.Lookup("zzz.mtx"); ok {
		t.Error("Lookup of unknown name succeeded")
	}
}

func TestScanInvalidFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.mtx": smallMtx,
		"bad.mtx":  "%%MatrixMarket\nnot a header\n",
	})

	_, err := NewProber(nil, nil, nil).Scan(context.Background(), root, Options{})
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("Scan() error = %v, want %v", err, errors.ErrCodeParse)
	}

	cat, err := NewProber(nil, nil, nil).Scan(context.Background(), root, Options{SkipInvalid: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"good.mtx"}, names(cat)); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestScanMissingRoot(t *testing.T) {
	_, err := NewProber(nil, nil, nil).Scan(context.Background(), filepath.Join(t.TempDir(), "absent"), Options{})
	if !errors.Is(err, errors.ErrCodeMissingSource) {
		t.Errorf("Scan() error = %v, want %v", err, errors.ErrCodeMissingSource)
	}
}

func TestScanInvalidOptions(t *testing.T) {
	root := t.TempDir()
	p := NewProber(nil, nil, nil)
	if _, err := p.Scan(context.Background(), root, Options{Workers: -1}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative workers: %v", err)
	}
	if _, err := p.Scan(context.Background(), root, Options{Formats: []formats.Format{"csv"}}); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestProbeCache(t *testing.T) {
	ctx := context.Background()
	root := writeTree(t, map[string]string{"a.dot": chainDot})
	path := filepath.Join(root, "a.dot")

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := NewProber(c, nil, nil)

	first, hit, err := p.ProbeWithCacheInfo(ctx, path, "", Options{})
	if err != nil || hit {
		t.Fatalf("first probe = %v, %v", hit, err)
	}
	second, hit, err := p.ProbeWithCacheInfo(ctx, path, "", Options{})
	if err != nil || !hit {
		t.Fatalf("second probe = %v, %v", hit, err)
	}
	if first != second {
		t.Errorf("cached descriptor %+v differs from %+v", second, first)
	}
	if _, hit, _ := p.ProbeWithCacheInfo(ctx, path, "", Options{Refresh: true}); hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestStatsCache(t *testing.T) {
	ctx := context.Background()
	root := writeTree(t, map[string]string{"a.dot": chainDot})
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p := NewProber(c, nil, nil)
	d, err := p.Probe(ctx, filepath.Join(root, "a.dot"), "", Options{})
	if err != nil {
		t.Fatal(err)
	}

	want := operator.Stats{Edges: 3, Vertices: 3, Duplicates: 1}
	for i, wantHit := range []bool{false, true} {
		st, hit, err := p.StatsWithCacheInfo(ctx, d, formats.Options{}, DefaultTTL)
		if err != nil {
			t.Fatal(err)
		}
		if hit != wantHit {
			t.Errorf("call %d: hit = %v, want %v", i, hit, wantHit)
		}
		if diff := cmp.Diff(want, st); diff != "" {
			t.Errorf("call %d: stats mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestCatalogAsSource(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.mtx": smallMtx,
		"b.mtx": "%%MatrixMarket matrix coordinate pattern general\n2 2 1\n1 2\n",
	})
	ctx := context.Background()
	cat, err := NewProber(nil, nil, nil).Scan(ctx, root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cat.Size() != 2 {
		t.Fatalf("Size() = %d", cat.Size())
	}

	small := cat.Filter(func(d formats.Descriptor) bool { return d.Entries < 2 })
	chain := pipeline.Compose(
		pipeline.Into(pipeline.Collect[int]),
		pipeline.Map(func(d formats.Descriptor) int { return int(d.Entries) }),
	)
	got, err := chain.Apply(small, pipeline.Options{}).Evaluate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}
