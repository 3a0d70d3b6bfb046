package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze the whole project and update the baseline",
		Long: `Analyze every source file under the project, compare the result with the
stored baseline, write the reports and record the run in the history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failOn, err := flags.gate()
			if err != nil {
				return err
			}

			e, done, err := a.open(pathArg(args))
			if err != nil {
				return err
			}
			defer done()

			run, err := e.Orchestrator.AnalyzeAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			return flags.print(cmd, run, failOn)
		},
	}

	flags.register(cmd)
	return cmd
}
