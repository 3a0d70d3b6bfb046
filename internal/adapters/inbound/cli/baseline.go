package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/tui"
)

func newBaselineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Inspect the stored baseline",
	}
	cmd.AddCommand(newBaselineShowCmd(a))
	return cmd
}

func newBaselineShowCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Show the baseline recorded by the last full run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, done, err := a.open(pathArg(args))
			if err != nil {
				return err
			}
			defer done()

			bl, err := e.Baselines.Load(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, bl)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderBaseline(bl))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show the trend of past full runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, done, err := a.open(pathArg(args))
			if err != nil {
				return err
			}
			defer done()

			entries, err := e.Baselines.History(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && limit < len(entries) {
				entries = entries[len(entries)-limit:]
			}
			if jsonOutput {
				return renderJSON(cmd, entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "Only the most recent N runs")
	return cmd
}

func renderJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
