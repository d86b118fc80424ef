package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphma/pkg/catalog"
	"github.com/matzehuels/graphma/pkg/formats"
	"github.com/matzehuels/graphma/pkg/graph"
	"github.com/matzehuels/graphma/pkg/operator"
	"github.com/matzehuels/graphma/pkg/pipeline"
)

// degreesOpts holds the command-line flags for the degrees command.
type degreesOpts struct {
	fileOpts
	top        int
	undirected bool
	recursive  bool
	json       bool
}

func (c *CLI) degreesCommand() *cobra.Command {
	var opts degreesOpts

	cmd := &cobra.Command{
		Use:   "degrees <file|dir>",
		Short: "Rank vertices by degree centrality",
		Long: `Build the graph of a file, or of every graph file under a directory, and
print the vertices with the highest degree.

--undirected reads Matrix Market files with integer vertex ids as an
undirected graph; other formats are rejected in that mode.`,
		Example: `  graphma degrees deps.dot --top 5
  graphma degrees data/ -r --undirected --format mtx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDegrees(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVarP(&opts.top, "top", "n", 10, "vertices shown per graph (0: all)")
	cmd.Flags().BoolVar(&opts.undirected, "undirected", false, "read Matrix Market files as undirected integer graphs")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print rankings as JSON lines")

	return cmd
}

func (c *CLI) runDegrees(ctx context.Context, path string, opts degreesOpts) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var cat *catalog.Catalog
	if info.IsDir() {
		cat, err = c.scanDir(ctx, path, opts)
	} else {
		var d formats.Descriptor
		d, _, err = c.describe(ctx, path, opts.fileOpts)
		cat = catalog.New(filepath.Dir(path), d)
	}
	if err != nil {
		return err
	}

	fopts := opts.formatsOptions(ctx)
	if opts.undirected {
		return rankCatalog(ctx, cat, operator.MtxToUndirectedGraph(ctx, fopts), opts.top, opts.json)
	}
	return rankCatalog(ctx, cat, operator.ToGraph(ctx, fopts), opts.top, opts.json)
}

func (c *CLI) scanDir(ctx context.Context, root string, opts degreesOpts) (*catalog.Catalog, error) {
	cfg := cacheConfig{Backend: backendFile}
	if opts.noCache {
		cfg.Backend = backendNone
	}
	prober, err := c.newProber(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer prober.Cache.Close()

	copts := catalog.Options{Recursive: opts.recursive, SkipInvalid: true, Logger: loggerFromContext(ctx)}
	if opts.format != "" {
		f, err := formats.ParseFormat(opts.format)
		if err != nil {
			return nil, err
		}
		copts.Formats = []formats.Format{f}
	} else if opts.undirected {
		copts.Formats = []formats.Format{formats.MTX}
	}
	return prober.Scan(ctx, root, copts)
}

// rankFile prints the top vertices of a single file.
func rankFile(ctx context.Context, d formats.Descriptor, top int, undirected bool) error {
	cat := catalog.New(filepath.Dir(d.Path), d)
	fopts := formats.Options{Logger: loggerFromContext(ctx)}
	if undirected {
		return rankCatalog(ctx, cat, operator.MtxToUndirectedGraph(ctx, fopts), top, false)
	}
	return rankCatalog(ctx, cat, operator.ToGraph(ctx, fopts), top, false)
}

type ranking[ID comparable] struct {
	Path     string                  `json:"path"`
	Vertices int                     `json:"vertices"`
	Top      operator.Centrality[ID] `json:"top"`
}

// rankCatalog runs catalog -> build -> degree centrality and prints one
// ranking per descriptor.
func rankCatalog[ID comparable](ctx context.Context, cat *catalog.Catalog, build pipeline.Stage[formats.Descriptor, *graph.Graph[ID]], top int, asJSON bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	enc := json.NewEncoder(stdout)
	i := 0
	emit := func(c operator.Centrality[ID]) {
		r := ranking[ID]{Path: cat.Entries[i].Path, Vertices: len(c), Top: c.Top(top)}
		i++
		if asJSON {
			if err := enc.Encode(r); err != nil {
				logger.Warn("encode ranking", "path", r.Path, "err", err)
			}
			return
		}
		printRanking(r)
	}

	chain := pipeline.Compose(
		pipeline.Compose(
			pipeline.Into(func() pipeline.Sink[operator.Centrality[ID], int64] { return pipeline.ForEach(emit) }),
			operator.DegreeCentrality[ID, *graph.Graph[ID]](),
		),
		build,
	)
	n, err := chain.Apply(cat, pipeline.Options{Name: "degrees", Logger: logger}).Evaluate(ctx)
	if err != nil {
		return err
	}
	prog.donef("Ranked %d graphs", n)
	return nil
}

func printRanking[ID comparable](r ranking[ID]) {
	rows := make([][]string, len(r.Top))
	for i, s := range r.Top {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			fmt.Sprint(s.Vertex),
			strconv.Itoa(s.Degree),
			strconv.FormatFloat(s.Normalized, 'f', 4, 64),
		}
	}

	printSuccess("%s", r.Path)
	printKeyValue("Vertices", strconv.Itoa(r.Vertices))
	if len(rows) == 0 {
		return
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	fmt.Fprintln(stdout, table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Vertex", "Degree", "Normalized").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return StyleValue
			case col == 0:
				return StyleDim
			}
			return StyleNumber
		}).
		Render())
}
