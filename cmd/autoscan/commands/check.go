package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/autoscan/internal/ui/style"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Deprecated alias of discover",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			errOut := cmd.ErrOrStderr()
			warn := lipgloss.NewRenderer(errOut).NewStyle().Foreground(style.Notice)
			_, _ = fmt.Fprintf(errOut, "%s %s\n",
				warn.Render(style.Warning),
				"'check' is deprecated and will be removed, use 'discover' instead")

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
