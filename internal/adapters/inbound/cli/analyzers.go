package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/tui"
	"github.com/abdidvp/kodeguard/internal/domain/analysis"
)

func newAnalyzersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyzers [path]",
		Short: "List the analyzers and whether the project disables them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, done, err := a.open(pathArg(args))
			if err != nil {
				return err
			}
			defer done()

			suite := analysis.DefaultSuite(analysis.SuiteOptions{Thresholds: e.Config.EffectiveThresholds()})
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderAnalyzers(suite, e.Config))
			return nil
		},
	}
}
