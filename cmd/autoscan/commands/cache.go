package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/autoscan/internal/app"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the scan cache",
		Args:  cobra.NoArgs,
	}

	clean := &cobra.Command{
		Use:   "clean [path]",
		Short: "Remove the scan cache of a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			opts := app.CleanOptions{ConfigFile: configFile}
			if len(args) > 0 {
				opts.Path = args[0]
			}
			if err := c.app.Clean(cmd.Context(), opts); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Scan cache removed")
			return nil
		},
	}

	cmd.AddCommand(clean)
	return cmd
}
