package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphma/pkg/catalog"
	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/operator"
)

// catalogOpts holds the command-line flags for the catalog command.
type catalogOpts struct {
	formats     []string
	recursive   bool
	workers     int
	skipInvalid bool
	minEntries  uint64
	maxEntries  uint64
	json        bool
	stats       bool
	pick        bool
	noCache     bool
	refresh     bool
	top         int
}

func (c *CLI) catalogCommand() *cobra.Command {
	var opts catalogOpts

	cmd := &cobra.Command{
		Use:   "catalog <dir>",
		Short: "List the graph files under a directory",
		Long: `Probe the header of every supported graph file under a directory.

Headers are cached on disk keyed by path, size and modification time, so
repeated scans only read files that changed. --stats additionally streams
every file to count vertices, self-loops and duplicate edges.`,
		Example: `  graphma catalog data/ -r --format mtx
  graphma catalog data/ --max-entries 1000 --stats
  graphma catalog data/ --pick`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCatalog(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "only these formats (repeatable)")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent header probes (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.skipInvalid, "skip-invalid", true, "skip files whose header cannot be read")
	cmd.Flags().Uint64Var(&opts.minEntries, "min-entries", 0, "hide files with fewer records")
	cmd.Flags().Uint64Var(&opts.maxEntries, "max-entries", 0, "hide files with more records (0: no limit)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the catalog as JSON")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "stream every file and add edge statistics")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose a file interactively and show its top degrees")
	cmd.Flags().IntVar(&opts.top, "top", 10, "degrees shown for a picked file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the header cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "probe every file again and update the cache")

	return cmd
}

func (c *CLI) runCatalog(ctx context.Context, root string, opts catalogOpts) error {
	logger := loggerFromContext(ctx)

	fs, err := parseFormatList(opts.formats)
	if err != nil {
		return err
	}
	cfg := cacheConfig{Backend: backendFile}
	if opts.noCache {
		cfg.Backend = backendNone
	}
	prober, err := c.newProber(ctx, cfg)
	if err != nil {
		return err
	}
	defer prober.Cache.Close()

	interactive := !opts.json && !opts.pick
	var spinner *Spinner
	if interactive {
		spinner = newSpinnerWithContext(ctx, "Scanning "+root+"...")
		spinner.Start()
	}
	prog := newProgress(logger)
	cat, err := prober.Scan(ctx, root, catalog.Options{
		Formats:     fs,
		Recursive:   opts.recursive,
		Workers:     opts.workers,
		SkipInvalid: opts.skipInvalid,
		Refresh:     opts.refresh,
		Logger:      logger,
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	cat = cat.Filter(entryBounds(opts.minEntries, opts.maxEntries))
	prog.donef("Found %d graph files", len(cat.Entries))

	if opts.pick {
		return c.pickAndRank(ctx, cat, opts.top)
	}
	if opts.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	}

	var stats []operator.Stats
	if opts.stats {
		stats = make([]operator.Stats, len(cat.Entries))
		for i, d := range cat.Entries {
			s, hit, err := prober.StatsWithCacheInfo(ctx, d, formats.Options{Logger: logger}, catalog.DefaultTTL)
			if err != nil {
				return err
			}
			logger.Debug("edge stats", "path", d.Path, "cached", hit)
			stats[i] = s
		}
	}

	if len(cat.Entries) == 0 {
		printInfo("No graph files under %s", root)
		return nil
	}
	fmt.Fprintln(stdout, renderCatalog(cat, stats))
	printSuccess("%d graph files", len(cat.Entries))
	printNextStep("Stream one", "graphma ingest "+cat.Entries[0].Path)
	return nil
}

// entryBounds keeps descriptors with lo <= Entries <= hi. A zero hi is unbounded.
func entryBounds(lo, hi uint64) func(formats.Descriptor) bool {
	return func(d formats.Descriptor) bool {
		return d.Entries >= lo && (hi == 0 || d.Entries <= hi)
	}
}

func renderCatalog(cat *catalog.Catalog, stats []operator.Stats) string {
	headers := catalogHeaders
	if stats != nil {
		headers = append(append([]string{}, catalogHeaders...), "Vertices", "Edges", "Loops", "Dups")
	}
	rows := make([][]string, len(cat.Entries))
	for i, d := range cat.Entries {
		rows[i] = catalogRow(cat.Root, d)
		if stats != nil {
			s := stats[i]
			rows[i] = append(rows[i],
				strconv.FormatInt(s.Vertices, 10),
				strconv.FormatInt(s.Edges, 10),
				strconv.FormatInt(s.SelfLoops, 10),
				strconv.FormatInt(s.Duplicates, 10))
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col >= 2:
				return StyleNumber
			}
			return StyleDim
		}).
		Render()
}

// pickAndRank lets the user choose an entry and prints its top vertices.
func (c *CLI) pickAndRank(ctx context.Context, cat *catalog.Catalog, top int) error {
	d, err := pickEntry(cat.Root, cat.Entries)
	if err != nil {
		return err
	}
	if d == nil {
		printInfo("Nothing selected")
		return nil
	}
	return rankFile(ctx, *d, top, false)
}
