package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/autoscan/internal/app"
	"go.trai.ch/autoscan/internal/ui/style"
)

func (c *CLI) newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "discover [path]",
		Aliases: []string{"scan"},
		Short:   "Scan a directory for model modules",
		Long: "Scan a directory for modules declaring SQLAlchemy or SQLModel models.\n" +
			"The path defaults to the project root or the current directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.Discover(cmd.Context(), discoverOptions(cmd, args))
			if err != nil {
				return err
			}
			printDiscovery(cmd.OutOrStdout(), res)
			return nil
		},
	}
	addScanFlags(cmd)
	return cmd
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("include", "i", nil, "Glob pattern of files to include (repeatable, e.g. '**/models/**')")
	cmd.Flags().StringArrayP("exclude", "e", nil, "Glob pattern of files to exclude (repeatable, e.g. '**/tests/**')")
	cmd.Flags().Bool("no-cache", false, "Ignore and do not update the scan cache")
	cmd.Flags().Bool("parallel", false, "Classify files on a worker pool regardless of their number")
	cmd.Flags().Bool("strict", false, "Import every discovered module and log those that fail")
}

func discoverOptions(cmd *cobra.Command, args []string) app.DiscoverOptions {
	includes, _ := cmd.Flags().GetStringArray("include")
	excludes, _ := cmd.Flags().GetStringArray("exclude")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	parallel, _ := cmd.Flags().GetBool("parallel")
	strict, _ := cmd.Flags().GetBool("strict")
	verbose, _ := cmd.Flags().GetBool("verbose")
	configFile, _ := cmd.Flags().GetString("config")
	logFormat, _ := cmd.Flags().GetString("log-format")

	opts := app.DiscoverOptions{
		Includes:   includes,
		Excludes:   excludes,
		ConfigFile: configFile,
		NoCache:    noCache,
		Parallel:   parallel,
		Strict:     strict,
		Verbose:    verbose,
		LogFormat:  logFormat,
	}
	if len(args) > 0 {
		opts.Path = args[0]
	}
	return opts
}

func printDiscovery(w io.Writer, res *app.DiscoverResult) {
	modules := res.Report.Modules
	if len(modules) == 0 {
		_, _ = fmt.Fprintf(w, "No SQLAlchemy models found in %s\n", res.Path)
		return
	}

	_, _ = fmt.Fprintf(w, "Discovered %d model modules in %s:\n", len(modules), res.Path)
	for _, module := range modules {
		_, _ = fmt.Fprintf(w, "  %s %s\n", style.Bullet, module)
	}
}
