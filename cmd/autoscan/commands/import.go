package commands

import (
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/autoscan/internal/ui/style"
)

func (c *CLI) newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [path]",
		Short: "Discover model modules and import them with the Python interpreter",
		Long: "Discover model modules and import each of them so their tables register\n" +
			"on the metadata. The interpreter is python3 unless AUTOSCAN_PYTHON is set.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.app.Import(cmd.Context(), discoverOptions(cmd, args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printDiscovery(out, &res.DiscoverResult)
			if len(res.Report.Modules) == 0 {
				return nil
			}

			ok := lipgloss.NewRenderer(out).NewStyle().Foreground(style.Success)
			_, _ = fmt.Fprintf(out, "%s Successfully imported %d modules\n", ok.Render(style.Check), res.Import.Count())

			errOut := cmd.ErrOrStderr()
			failed := lipgloss.NewRenderer(errOut).NewStyle().Foreground(style.Failure)
			for _, module := range slices.Sorted(maps.Keys(res.Import.Failed)) {
				_, _ = fmt.Fprintf(errOut, "%s %s: %s\n", failed.Render(style.Cross), module, res.Import.Failed[module])
			}
			return nil
		},
	}
	addScanFlags(cmd)
	return cmd
}
