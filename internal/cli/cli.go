// Package cli implements the graphma command-line interface.
//
// The commands are thin drivers over the library packages:
//   - ingest: stream the edges of one file
//   - catalog: probe every edge-list file under a directory
//   - degrees: degree centrality of one file or a whole catalog
//   - export: write a file's graph as JSON, DOT or SVG
//   - run: execute a job described in a TOML file
//   - cache: manage the header cache
//
// All commands support --verbose (-v) for debug-level logging and --quiet
// (-q) for warnings only. The logger is passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphma/pkg/buildinfo"
	"github.com/matzehuels/graphma/pkg/cache"
	"github.com/matzehuels/graphma/pkg/catalog"
)

// appName is the application name used for directories and display.
const appName = "graphma"

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose, quiet bool
	root := &cobra.Command{
		Use:           appName,
		Short:         "graphma streams edge lists out of graph files",
		Long:          `graphma reads Matrix Market, DOT, GML and GraphML files as resumable edge streams and composes them into graph pipelines.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case verbose:
				c.SetLogLevel(LogDebug)
			case quiet:
				c.SetLogLevel(LogWarn)
			}
			installHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug events (cache traffic, traversals, pipeline runs)")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log warnings and errors only")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.ingestCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.degreesCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newProber creates a header prober for CLI use.
func (c *CLI) newProber(ctx context.Context, cfg cacheConfig) (*catalog.Prober, error) {
	store, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Scope != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Scope+":")
	}
	return catalog.NewProber(store, keyer, c.Logger), nil
}

func newCache(ctx context.Context, cfg cacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/graphma/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
