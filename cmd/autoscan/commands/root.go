// Package commands implements the CLI commands for autoscan.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/autoscan/internal/app"
	"go.trai.ch/autoscan/internal/build"
)

// CLI represents the command line interface for autoscan.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Discover(ctx context.Context, opts app.DiscoverOptions) (*app.DiscoverResult, error)
	Import(ctx context.Context, opts app.DiscoverOptions) (*app.ImportResult, error)
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:   "autoscan",
		Short: "Discover SQLAlchemy and SQLModel models without importing them",
		Long: "autoscan reads a Python source tree and lists the modules that declare\n" +
			"SQLAlchemy or SQLModel models, so migration tooling can import exactly those.\n" +
			"Scanned code is never executed; results are cached per configuration.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(versionLine())
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-format", "auto", "Log format: auto, pretty or json")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(
		c.newDiscoverCmd(),
		c.newCheckCmd(),
		c.newImportCmd(),
		c.newCacheCmd(),
		c.newVersionCmd(),
	)

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
