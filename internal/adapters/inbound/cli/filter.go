package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFilterCmd(a *app) *cobra.Command {
	var (
		flags     runFlags
		analyzers []string
		paths     []string
	)

	cmd := &cobra.Command{
		Use:   "filter [path]",
		Short: "Run selected analyzers",
		Long: `Run only the analyzers named with --analyzer, over the whole project or the
files named with --file. Unknown analyzer ids are ignored. The baseline and
history are left untouched.`,
		Example: `  kodeguard filter --analyzer security
  kodeguard filter --analyzer compose,state --file app/src/main/java/com/shop/ui`,
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

			run, err := e.Orchestrator.AnalyzeWithFilters(cmd.Context(), paths, analyzers)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			return flags.print(cmd, run, failOn)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&analyzers, "analyzer", nil, "Analyzer id to run (repeatable)")
	cmd.Flags().StringSliceVar(&paths, "file", nil, "File or directory to analyze, relative to the project (repeatable)")
	_ = cmd.MarkFlagRequired("analyzer")
	return cmd
}
