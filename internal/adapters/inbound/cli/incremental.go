package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newIncrementalCmd(a *app) *cobra.Command {
	var (
		flags       runFlags
		projectPath string
		changed     bool
	)

	cmd := &cobra.Command{
		Use:   "incremental [files...]",
		Short: "Analyze only the given files",
		Long: `Analyze the named files or directories and report them against the
baseline. The baseline and history are left untouched. With --changed the
files modified in the git working tree are added to the list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !changed {
				return fmt.Errorf("name at least one file or pass --changed")
			}
			failOn, err := flags.gate()
			if err != nil {
				return err
			}

			e, done, err := a.open(projectPath)
			if err != nil {
				return err
			}
			defer done()

			paths := make([]string, 0, len(args))
			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolving %s: %w", arg, err)
				}
				paths = append(paths, abs)
			}
			if changed {
				files, err := e.Git.ChangedFiles(e.Root)
				if err != nil {
					return fmt.Errorf("listing changed files: %w", err)
				}
				paths = append(paths, files...)
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No changed files.")
				return nil
			}

			run, err := e.Orchestrator.AnalyzeIncremental(cmd.Context(), paths)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			return flags.print(cmd, run, failOn)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&projectPath, "path", ".", "Project root")
	cmd.Flags().BoolVar(&changed, "changed", false, "Include files changed in the git working tree")
	return cmd
}
