package catalog

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/graphma/pkg/errors"
	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/source"
	"github.com/matzehuels/graphma/pkg/traverse"
)

// Catalog is an ordered, immutable set of descriptors.
type Catalog struct {
	Root    string               `json:"root"`
	Entries []formats.Descriptor `json:"entries"`
}

var _ source.Source[formats.Descriptor] = (*Catalog)(nil)

// New returns a catalog over descriptors, in the given order.
func New(root string, descs ...formats.Descriptor) *Catalog {
	return &Catalog{Root: root, Entries: descs}
}

// Traverse yields the descriptors in order.
func (c *Catalog) Traverse() traverse.Traverser[formats.Descriptor] {
	return traverse.Slice(c.Entries)
}

// Size returns the number of descriptors.
func (c *Catalog) Size() int64 { return int64(len(c.Entries)) }

// Filter returns a catalog of the descriptors pred accepts.
func (c *Catalog) Filter(pred func(formats.Descriptor) bool) *Catalog {
	var out []formats.Descriptor
	for _, d := range c.Entries {
		if pred(d) {
			out = append(out, d)
		}
	}
	return &Catalog{Root: c.Root, Entries: out}
}

// Lookup returns the descriptor whose path, relative to the root, is name.
func (c *Catalog) Lookup(name string) (formats.Descriptor, bool) {
	for _, d := range c.Entries {
		if rel, err := filepath.Rel(c.Root, d.Path); err == nil && rel == name {
			return d, true
		}
		if d.Path == name {
			return d, true
		}
	}
	return formats.Descriptor{}, false
}

// Scan walks root, probes the header of every file with a known extension
// and returns the catalog sorted by path.
func (p *Prober) Scan(ctx context.Context, root string, opts Options) (*Catalog, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(root); err != nil {
		return nil, err
	}

	paths, err := p.walk(root, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	found := make([]formats.Descriptor, len(paths))
	ok := make([]bool, len(paths))
	var hits atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, hit, err := p.ProbeWithCacheInfo(gctx, path, "", opts)
			if err != nil {
				if opts.SkipInvalid {
					opts.Logger.Warn("skipping file", "path", path, "err", err)
					return nil
				}
				return err
			}
			if hit {
				hits.Add(1)
			}
			found[i], ok[i] = d, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cat := &Catalog{Root: root}
	for i, d := range found {
		if ok[i] {
			cat.Entries = append(cat.Entries, d)
		}
	}
	opts.Logger.Debug("scanned catalog",
		"root", root,
		"files", len(cat.Entries),
		"cached", hits.Load(),
		"duration", time.Since(start))
	return cat, nil
}

// walk lists candidate files under root in lexical order.
func (p *Prober) walk(root string, opts Options) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) && path == root {
				return errors.Wrap(errors.ErrCodeMissingSource, err, "scan %s", root)
			}
			return errors.Wrap(errors.ErrCodeIO, err, "scan %s", path)
		}
		if d.IsDir() {
			if path != root && (!opts.Recursive || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		f, err := formats.DetectFormat(path)
		if err != nil || !opts.accepts(f) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}
