package source

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/index"
	"github.com/matzehuels/graphma/pkg/traverse"
)

func TestFromSliceRetraversable(t *testing.T) {
	src := Of(1, 2, 3)
	for pass := 0; pass < 2; pass++ {
		got, err := traverse.Collect(src.Traverse(), traverse.Identity[int])
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
			t.Errorf("pass %d (-want +got):\n%s", pass, diff)
		}
	}
}

func TestOnce(t *testing.T) {
	src := Once(traverse.Slice([]string{"a"}))
	first, _ := traverse.Collect(src.Traverse(), traverse.Identity[string])
	second, _ := traverse.Collect(src.Traverse(), traverse.Identity[string])
	if len(first) != 1 || len(second) != 0 {
		t.Errorf("first = %v, second = %v", first, second)
	}
}

func writeChain(t *testing.T, n int) (string, []formats.Edge[int64]) {
	t.Helper()
	var b strings.Builder
	b.WriteString(strconv.Itoa(n+1) + " " + strconv.Itoa(n+1) + " " + strconv.Itoa(n) + "\n")
	var want []formats.Edge[int64]
	for i := 1; i <= n; i++ {
		b.WriteString(strconv.Itoa(i) + " " + strconv.Itoa(i+1) + "\n")
		want = append(want, formats.Edge[int64]{Source: int64(i), Target: int64(i + 1)})
	}
	path := filepath.Join(t.TempDir(), "chain.mtx")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, want
}

func TestPartitionUnion(t *testing.T) {
	path, want := writeChain(t, 10)
	desc, err := formats.ReadHeader(path, formats.MTX)
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range []int{1, 3, 4, 10, 20} {
		var got []formats.Edge[int64]
		for _, part := range Partition(desc.Int64Edges(formats.Options{}), n) {
			edges, err := traverse.Collect(part.Traverse(), formats.Copy[int64])
			if err != nil {
				t.Fatal(err)
			}
			got = append(got, edges...)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("n=%d (-want +got):\n%s", n, diff)
		}
	}
}

func TestPartitionUnknownEntries(t *testing.T) {
	path, want := writeChain(t, 4)
	src := formats.Descriptor{Path: path, Format: formats.MTX}.Int64Edges(formats.Options{})
	parts := Partition(src, 3)
	if len(parts) != 1 {
		t.Fatalf("parts = %d, want 1 when entries are unknown", len(parts))
	}
	got, err := traverse.Collect(parts[0].Traverse(), formats.Copy[int64])
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParallel(t *testing.T) {
	path, want := writeChain(t, 25)
	desc, err := formats.ReadHeader(path, formats.MTX)
	if err != nil {
		t.Fatal(err)
	}
	parts := Partition(desc.Int64Edges(formats.Options{BufferSize: 32}), 4)

	var mu sync.Mutex
	byPart := make([][]formats.Edge[int64], len(parts))
	err = Parallel(context.Background(), parts, func(i int, e *formats.Edge[int64]) {
		mu.Lock()
		defer mu.Unlock()
		byPart[i] = append(byPart[i], *e)
	})
	if err != nil {
		t.Fatal(err)
	}

	var got []formats.Edge[int64]
	for _, edges := range byPart {
		got = append(got, edges...)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	parts := []Source[int]{Of(1, 2, 3), Of(4, 5, 6)}
	err := Parallel(ctx, parts, func(int, int) {})
	if err != context.Canceled {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
}

func TestParallelError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mtx")
	if err := os.WriteFile(path, []byte("3 3 2\n1 2\nx 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := formats.Descriptor{Path: path, Format: formats.MTX, Entries: 2}.Int64Edges(formats.Options{})
	parts := []Source[*formats.Edge[int64]]{src.In(index.Of(0, 1)), src.In(index.Of(1, 2))}
	err := Parallel(context.Background(), parts, func(int, *formats.Edge[int64]) {})
	if err == nil || !strings.Contains(err.Error(), "part 1") {
		t.Errorf("error = %v, want failure in part 1", err)
	}
}
