package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphma/pkg/graph"
	graphio "github.com/matzehuels/graphma/pkg/io"
	"github.com/matzehuels/graphma/pkg/operator"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	fileOpts
	output   string
	as       string
	detailed bool
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the graph of a file as JSON, DOT or SVG",
		Long: `Build the graph of a file and write it in another representation.

The output kind follows the extension of -o unless --as is given. SVG is
rendered with Graphviz.`,
		Example: `  graphma export web.mtx -o web.json
  graphma export deps.gml -o deps.svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (required)")
	cmd.Flags().StringVar(&opts.as, "as", "", "output kind: json, dot, svg (default: from extension)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label DOT and SVG vertices with their degree")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, path string, opts exportOpts) error {
	kind := opts.as
	if kind == "" {
		kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	}
	if kind != outputJSON && kind != outputDOT && kind != outputSVG {
		return fmt.Errorf("cannot export to %q: use json, dot or svg", kind)
	}

	d, cached, err := c.describe(ctx, path, opts.fileOpts)
	if err != nil {
		return err
	}
	prog := newProgress(loggerFromContext(ctx))
	g, err := operator.Ingest[string](ctx, d.Edges(opts.formatsOptions(ctx)), d.Directed)
	if err != nil {
		return err
	}
	if err := writeGraph(ctx, g, kind, opts.output, opts.detailed); err != nil {
		return err
	}
	prog.donef("Exported %d vertices and %d edges", g.VertexCount(), g.EdgeCount())

	printSuccess("Exported %s", kind)
	printStats(g.VertexCount(), g.EdgeCount(), cached)
	printFile(opts.output)
	return nil
}

// writeGraph writes g to path in the given output kind.
func writeGraph[ID comparable](ctx context.Context, g *graph.Graph[ID], kind, path string, detailed bool) error {
	dopts := graphio.DOTOptions{Detailed: detailed}
	switch kind {
	case outputJSON:
		return graphio.ExportJSON(g, path)
	case outputDOT:
		return graphio.ExportDOT(g, path, dopts)
	case outputSVG:
		return graphio.ExportSVG(ctx, g, path, dopts)
	}
	return fmt.Errorf("unknown output kind %q", kind)
}
