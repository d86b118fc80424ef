package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphma/pkg/catalog"
	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/graph"
	"github.com/matzehuels/graphma/pkg/operator"
	"github.com/matzehuels/graphma/pkg/pipeline"
)

func (c *CLI) runCommand() *cobra.Command {
	var config string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a batch job described in a TOML file",
		Long: `Run a batch job: scan a source, keep the files inside the configured
entry bounds and produce one output per file.

Output kinds:
  stats    edge statistics table (cached like headers)
  degrees  top vertices by degree centrality
  json     graph documents written to output.dir
  dot      Graphviz sources written to output.dir
  svg      rendered drawings written to output.dir`,
		Example: `  graphma run --config job.toml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runJob(cmd.Context(), config)
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "job file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (c *CLI) runJob(ctx context.Context, path string) error {
	logger := loggerFromContext(ctx)

	j, err := loadJob(path)
	if err != nil {
		return err
	}
	logger = logger.With("job", j.Name)
	ctx = withLogger(ctx, logger)

	prober, err := c.newProber(ctx, j.Cache)
	if err != nil {
		return err
	}
	defer prober.Cache.Close()

	cat, err := c.jobCatalog(ctx, j, prober)
	if err != nil {
		return err
	}
	cat = cat.Filter(j.accepts)
	if len(cat.Entries) == 0 {
		printWarning("No graph files matched in %s", j.Source.Path)
		return nil
	}
	logger.Info("matched graph files", "count", len(cat.Entries))

	fopts := formats.Options{
		Logger:     logger,
		BufferSize: j.Ingest.BufferSize,
		Strict:     j.Ingest.Strict,
	}

	switch j.Output.Kind {
	case outputStats:
		stats := make([]operator.Stats, len(cat.Entries))
		cached := 0
		for i, d := range cat.Entries {
			s, hit, err := prober.StatsWithCacheInfo(ctx, d, fopts, catalog.DefaultTTL)
			if err != nil {
				return err
			}
			if hit {
				cached++
			}
			stats[i] = s
		}
		fmt.Fprintln(stdout, renderCatalog(cat, stats))
		printSuccess("%d graph files", len(cat.Entries))
		printDetail("%d statistics from cache", cached)
		return nil
	case outputDegrees:
		return rankCatalog(ctx, cat, operator.ToGraph(ctx, fopts), j.Output.Top, false)
	}
	return exportCatalog(ctx, cat, fopts, j.Output)
}

// jobCatalog scans the job source. A file source yields a single entry.
func (c *CLI) jobCatalog(ctx context.Context, j *job, prober *catalog.Prober) (*catalog.Catalog, error) {
	copts, err := j.catalogOptions()
	if err != nil {
		return nil, err
	}
	copts.Logger = loggerFromContext(ctx)

	if info, err := os.Stat(j.Source.Path); err == nil && !info.IsDir() {
		d, err := prober.Probe(ctx, j.Source.Path, "", copts)
		if err != nil {
			return nil, err
		}
		return catalog.New(filepath.Dir(j.Source.Path), d), nil
	}

	spinner := newSpinnerWithContext(ctx, "Scanning "+j.Source.Path+"...")
	spinner.Start()
	cat, err := prober.Scan(ctx, j.Source.Path, copts)
	spinner.Stop()
	return cat, err
}

// exportCatalog writes one output file per catalog entry into out.Dir.
func exportCatalog(ctx context.Context, cat *catalog.Catalog, fopts formats.Options, out outputConfig) error {
	if err := os.MkdirAll(out.Dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", out.Dir, err)
	}
	prog := newProgress(loggerFromContext(ctx))

	var (
		i        int
		written  []string
		writeErr error
	)
	write := func(g *graph.Graph[string]) {
		d := cat.Entries[i]
		i++
		if writeErr != nil {
			return
		}
		dst := filepath.Join(out.Dir, exportName(cat.Root, d.Path, out.Kind))
		if writeErr = writeGraph(ctx, g, out.Kind, dst, out.Detailed); writeErr == nil {
			written = append(written, dst)
		}
	}

	chain := pipeline.Compose(
		pipeline.Into(func() pipeline.Sink[*graph.Graph[string], int64] { return pipeline.ForEach(write) }),
		operator.ToGraph(ctx, fopts),
	)
	if _, err := chain.Apply(cat, pipeline.Options{Name: "export", Logger: fopts.Logger}).Evaluate(ctx); err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}
	prog.donef("Exported %d graphs", len(written))

	printSuccess("Exported %d graphs as %s", len(written), out.Kind)
	for _, f := range written {
		printFile(f)
	}
	return nil
}

// exportName flattens path relative to root into a file name with the
// extension of kind: root/a/b.mtx becomes a_b.json.
func exportName(root, path, kind string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "_") + "." + kind
}
