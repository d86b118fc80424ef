package source

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/index"
	"github.com/matzehuels/graphma/pkg/traverse"
)

// Partition splits src into at most n sources over disjoint, contiguous
// windows of its descriptor's declared records. The last window is left open
// at the end, so records beyond an underestimated Entries are not lost.
func Partition[ID comparable](src formats.EdgeSource[ID], n int) []Source[*formats.Edge[ID]] {
	lo := src.Range.Lo()
	hi := max(lo, min(src.Range.Hi(), src.Desc.Entries))
	parts := index.Of(lo, hi).Split(n)
	if len(parts) == 0 {
		return []Source[*formats.Edge[ID]]{src}
	}
	last := len(parts) - 1
	parts[last] = index.Of(parts[last].Lo(), src.Range.Hi())

	out := make([]Source[*formats.Edge[ID]], len(parts))
	for i, rng := range parts {
		out[i] = src.In(rng)
	}
	return out
}

// Parallel traverses every part on its own goroutine and calls action with
// the part number and each value. action runs concurrently across parts and
// must do its own synchronisation; values borrowed from a traverser cursor
// must be copied before they leave the callback.
//
// The first error cancels the remaining parts, which stop after their
// current record and release their files.
func Parallel[T any](ctx context.Context, parts []Source[T], action func(part int, v T)) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range parts {
		g.Go(func() error {
			ctl := traverse.WithContext(gctx, nil)
			st, err := traverse.Run(p.Traverse(), ctl, func(v T) { action(i, v) })
			if err != nil {
				return fmt.Errorf("part %d: %w", i, err)
			}
			if st == traverse.Exit {
				return gctx.Err()
			}
			return nil
		})
	}
	return g.Wait()
}
