package formats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/index"
	"github.com/matzehuels/graphma/pkg/traverse"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func collect[ID comparable](t *testing.T, tr traverse.Traverser[*Edge[ID]]) []Edge[ID] {
	t.Helper()
	got, err := traverse.Collect(tr, Copy[ID])
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	return got
}

func isClosed[ID comparable](tr traverse.Traverser[*Edge[ID]]) bool {
	rt, ok := tr.(*recordTraverser[ID])
	return ok && rt.sc.Closed()
}

const smallMtx = "%%MatrixMarket matrix coordinate pattern general\n% two edges\n3 3 2\n1 2\n2 3\n"

func TestMtxRoundTrip(t *testing.T) {
	path := writeFixture(t, "small.mtx", smallMtx)
	tr, err := OpenMtx(path, index.Of(0, 2), 0, Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := collect(t, tr)
	want := []Edge[int64]{{1, 2}, {2, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if !isClosed(tr) {
		t.Error("resource still open after Drain")
	}
}

func TestMtxResume(t *testing.T) {
	path := writeFixture(t, "small.mtx", smallMtx)
	tr, err := OpenMtx(path, index.Of(1, 2), 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Edge[int64]{{2, 3}}, collect(t, tr)); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}

	// A position past the range start skips further.
	tr, err = OpenMtx(path, index.Of(0, 2), 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Edge[int64]{{2, 3}}, collect(t, tr)); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestMtxPartitionUnion(t *testing.T) {
	var b strings.Builder
	b.WriteString("% generated\n10 10 9\n")
	var full []Edge[int64]
	for i := int64(1); i <= 9; i++ {
		b.WriteString(strings.Repeat(" ", int(i%3)))
		b.WriteString(formatID(i) + " " + formatID(i+1) + " 0.5\n")
		full = append(full, Edge[int64]{i, i + 1})
	}
	path := writeFixture(t, "chain.mtx", b.String())

	for k := uint64(0); k <= 9; k++ {
		left, err := OpenMtx(path, index.Of(0, k), 0, Options{})
		if err != nil {
			t.Fatal(err)
		}
		right, err := OpenMtx(path, index.Of(k, 9), 0, Options{})
		if err != nil {
			t.Fatal(err)
		}
		got := append(collect(t, left), collect(t, right)...)
		if diff := cmp.Diff(full, got); diff != "" {
			t.Errorf("split at %d (-want +got):\n%s", k, diff)
		}
	}
}

func TestMtxCancellation(t *testing.T) {
	path := writeFixture(t, "small.mtx", smallMtx)
	tr, err := OpenMtx(path, index.All(), 0, Options{})
	if err != nil {
		t.Fatal(err)
	}

	tok := traverse.NewToken()
	calls := 0
	st, err := traverse.Run(tr, tok, func(*Edge[int64]) {
		calls++
		tok.Stop()
	})
	if err != nil {
		t.Fatal(err)
	}
	if st != traverse.Exit {
		t.Errorf("status = %v, want %v", st, traverse.Exit)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
	if !isClosed(tr) {
		t.Error("resource still open after Exit")
	}
	if ok, err := tr.TryStep(func(*Edge[int64]) { t.Error("callback after Exit") }); ok || err != nil {
		t.Errorf("TryStep after Exit = %v, %v", ok, err)
	}
}

func TestMtxEmpty(t *testing.T) {
	path := writeFixture(t, "empty.mtx", "0 0 0\n")
	tr, err := OpenMtx(path, index.All(), 0, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := tr.TryStep(func(*Edge[int64]) { t.Error("unexpected edge") }); ok || err != nil {
		t.Errorf("TryStep() = %v, %v, want exhausted", ok, err)
	}
	if !isClosed(tr) {
		t.Error("resource still open")
	}

	tr, _ = OpenMtx(path, index.All(), 0, Options{})
	calls := 0
	if err := tr.Drain(func(*Edge[int64]) { calls++ }); err != nil || calls != 0 {
		t.Errorf("Drain() = %v after %d calls", err, calls)
	}
}

func TestMtxMalformedToken(t *testing.T) {
	path := writeFixture(t, "bad.mtx", "3 3 3\n1 2\n2 x\n3 1\n")

	tr, err := OpenMtx(path, index.All(), 0, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var got []Edge[int64]
	err = tr.Drain(func(e *Edge[int64]) { got = append(got, *e) })
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Fatalf("Drain() error = %v, want %v", err, errors.ErrCodeParse)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %q should name line 3", err)
	}
	if diff := cmp.Diff([]Edge[int64]{{1, 2}}, got); diff != "" {
		t.Errorf("edges before failure (-want +got):\n%s", diff)
	}
	if !isClosed(tr) {
		t.Error("resource still open after failure")
	}

	// Windows that exclude the bad record are unaffected.
	for _, rng := range []index.Range{index.Of(0, 1), index.Of(2, 3)} {
		tr, err := OpenMtx(path, rng, 0, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if edges := collect(t, tr); len(edges) != 1 {
			t.Errorf("window %v: got %v", rng, edges)
		}
	}
}

func TestMtxErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
		atOpen  bool
	}{
		{"short header", "3 3\n1 2\n", errors.ErrCodeParse, true},
		{"non-numeric header", "3 a 1\n1 2\n", errors.ErrCodeParse, true},
		{"truncated body", "3 3 3\n1 2\n", errors.ErrCodeParse, false},
		{"single field", "3 3 1\n1\n", errors.ErrCodeParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, "g.mtx", tt.content)
			tr, err := OpenMtx(path, index.All(), 0, Options{})
			if !tt.atOpen {
				if err != nil {
					t.Fatalf("OpenMtx() error = %v", err)
				}
				err = tr.Drain(func(*Edge[int64]) {})
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestMtxLoopYieldsAtRefill(t *testing.T) {
	var b strings.Builder
	b.WriteString("50 50 40\n")
	for i := 1; i <= 40; i++ {
		b.WriteString(formatID(int64(i)) + " " + formatID(int64(i%7+1)) + "\n")
	}
	path := writeFixture(t, "refill.mtx", b.String())

	tr, err := OpenMtx(path, index.All(), 0, Options{BufferSize: 16})
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	st, err := tr.Loop(traverse.Always(), func(*Edge[int64]) { n++ })
	if err != nil {
		t.Fatal(err)
	}
	if st != traverse.None {
		t.Fatalf("first Loop() = %v, want %v with a 16 byte buffer", st, traverse.None)
	}
	st, err = traverse.Run(tr, traverse.Always(), func(*Edge[int64]) { n++ })
	if err != nil || st != traverse.Done {
		t.Fatalf("Run() = %v, %v", st, err)
	}
	if n != 40 {
		t.Errorf("edges = %d, want 40", n)
	}
}

func TestMissingSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.mtx")

	tr, err := OpenMtx(path, index.All(), 0, Options{})
	if err != nil {
		t.Fatalf("OpenMtx() error = %v, want silent empty traverser", err)
	}
	if edges := collect(t, tr); len(edges) != 0 {
		t.Errorf("edges = %v, want none", edges)
	}

	_, err = OpenMtx(path, index.All(), 0, Options{Strict: true})
	if !errors.Is(err, errors.ErrCodeMissingSource) {
		t.Errorf("strict error = %v, want %v", err, errors.ErrCodeMissingSource)
	}

	existing := writeFixture(t, "small.mtx", smallMtx)
	_, err = OpenMtx(existing, index.Of(1, 1), 0, Options{Strict: true})
	if !errors.Is(err, errors.ErrCodeMissingSource) {
		t.Errorf("empty range error = %v, want %v", err, errors.ErrCodeMissingSource)
	}
}
