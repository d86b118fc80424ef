package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphma/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached headers and edge statistics",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the on-disk cache",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return clearCache() },
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print where the on-disk cache lives",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
				return err
			},
		},
	)
	return cmd
}

// clearCache removes the file cache entries, leaving the directory itself.
func clearCache() error {
	dir, err := cacheDir()
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		printInfo("Nothing cached yet")
		return nil
	}

	store, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	n, err := store.(*cache.FileCache).Clear()
	if err != nil {
		return fmt.Errorf("clear cache in %s: %w", dir, err)
	}
	printSuccess("Removed %d cache entries", n)
	printDetail("%s", dir)
	return nil
}
