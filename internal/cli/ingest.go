package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphma/pkg/catalog"
	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/index"
	"github.com/matzehuels/graphma/pkg/pipeline"
	"github.com/matzehuels/graphma/pkg/source"
)

// fileOpts holds the flags shared by commands that read one file.
type fileOpts struct {
	format  string
	buffer  int
	strict  bool
	noCache bool
}

func (o *fileOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "input format: mtx, dot, gml, graphml (default: from extension)")
	cmd.Flags().IntVar(&o.buffer, "buffer", 0, "scanner buffer size in bytes (bounds the longest line)")
	cmd.Flags().BoolVar(&o.strict, "strict", false, "fail on a missing file instead of yielding no edges")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "probe the header even if it is cached")
}

func (o *fileOpts) formatsOptions(ctx context.Context) formats.Options {
	return formats.Options{
		Logger:     loggerFromContext(ctx),
		BufferSize: o.buffer,
		Strict:     o.strict,
	}
}

// describe probes path through the CLI cache and reports whether the header
// came from the cache.
func (c *CLI) describe(ctx context.Context, path string, o fileOpts) (formats.Descriptor, bool, error) {
	cfg := cacheConfig{Backend: backendFile}
	if o.noCache {
		cfg.Backend = backendNone
	}
	prober, err := c.newProber(ctx, cfg)
	if err != nil {
		return formats.Descriptor{}, false, err
	}
	defer prober.Cache.Close()

	var format formats.Format
	if o.format != "" {
		if format, err = formats.ParseFormat(o.format); err != nil {
			return formats.Descriptor{}, false, err
		}
	}
	d, hit, err := prober.ProbeWithCacheInfo(ctx, path, format, catalog.Options{Logger: loggerFromContext(ctx)})
	if err != nil {
		return formats.Descriptor{}, false, err
	}
	loggerFromContext(ctx).Debug("probed header", "path", path, "format", d.Format, "entries", d.Entries, "cached", hit)
	return d, hit, nil
}

// ingestOpts holds the command-line flags for the ingest command.
type ingestOpts struct {
	fileOpts
	lo, hi   uint64 // record window, hi 0 means to the end
	from     uint64 // resume position inside the window
	limit    int64  // stop after this many edges
	parallel int    // count edges in this many partitions
	json     bool   // JSON lines instead of tab separated pairs
}

func (c *CLI) ingestCommand() *cobra.Command {
	var opts ingestOpts

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Stream the edges of a graph file",
		Long: `Stream the edges of a graph file to stdout, one per line.

A window restricts ingestion to records [lo, hi): MTX data lines, DOT body
lines, or GML/GraphML edges. --from resumes inside the window. With
--parallel the window is split into partitions that are read concurrently
and only the edge count is reported.`,
		Example: `  graphma ingest web.mtx
  graphma ingest deps.dot --lo 100 --hi 200 --json
  graphma ingest big.mtx --parallel 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIngest(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().Uint64Var(&opts.lo, "lo", 0, "first record of the window")
	cmd.Flags().Uint64Var(&opts.hi, "hi", 0, "end of the window, exclusive (0: end of file)")
	cmd.Flags().Uint64Var(&opts.from, "from", 0, "resume at this record")
	cmd.Flags().Int64VarP(&opts.limit, "limit", "n", 0, "stop after this many edges")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", 0, "count edges with this many concurrent partitions")
	cmd.Flags().BoolVar(&opts.json, "json", false, "write edges as JSON lines")

	return cmd
}

func (c *CLI) runIngest(ctx context.Context, w io.Writer, path string, opts ingestOpts) error {
	logger := loggerFromContext(ctx)

	desc, _, err := c.describe(ctx, path, opts.fileOpts)
	if err != nil {
		return err
	}
	rng := index.All()
	if opts.hi > 0 || opts.lo > 0 {
		hi := opts.hi
		if hi == 0 {
			hi = rng.Hi()
		}
		if opts.lo > hi {
			return fmt.Errorf("window [%d, %d) is inverted", opts.lo, hi)
		}
		rng = index.Of(opts.lo, hi)
	}
	src := desc.Edges(opts.formatsOptions(ctx)).In(rng).From(opts.from)

	prog := newProgress(logger)
	if opts.parallel > 1 {
		parts := source.Partition(src, opts.parallel)
		var n atomic.Int64
		err := source.Parallel(ctx, parts, func(int, *formats.Edge[string]) { n.Add(1) })
		if err != nil {
			return err
		}
		fmt.Fprintln(w, n.Load())
		prog.donef("Counted %d edges in %d partitions", n.Load(), len(parts))
		return nil
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	var writeErr error
	emit := func(e *formats.Edge[string]) {
		if writeErr != nil {
			return
		}
		if opts.json {
			writeErr = enc.Encode(e)
			return
		}
		_, writeErr = fmt.Fprintf(bw, "%s\t%s\n", e.Source, e.Target)
	}

	chain := pipeline.Into(func() pipeline.Sink[*formats.Edge[string], int64] { return pipeline.ForEach(emit) })
	if opts.limit > 0 {
		chain = chain.Through(pipeline.Limit[*formats.Edge[string]](opts.limit))
	}
	n, err := chain.Apply(src, pipeline.Options{Name: "ingest", Logger: logger}).Evaluate(ctx)
	if err != nil {
		return err
	}
	if writeErr != nil {
		return fmt.Errorf("write: %w", writeErr)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	prog.donef("Ingested %d edges from %s", n, path)
	return nil
}
