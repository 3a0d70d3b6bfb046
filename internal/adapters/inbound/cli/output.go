package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/report"
	"github.com/abdidvp/kodeguard/internal/adapters/outbound/tui"
	"github.com/abdidvp/kodeguard/internal/domain"
)

// runFlags are shared by every command that performs an analysis run.
type runFlags struct {
	jsonOutput bool
	ciMode     bool
	failOn     string
	hotspots   bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&f.ciMode, "ci", false, "Exit non-zero when findings reach the --fail-on priority")
	cmd.Flags().StringVar(&f.failOn, "fail-on", "high", "Lowest priority that fails a --ci run (low, medium, high, critical)")
	cmd.Flags().BoolVar(&f.hotspots, "hotspots", false, "Also list the files with the most weighted findings")
}

// gate parses --fail-on up front so a typo fails before the run starts.
func (f *runFlags) gate() (domain.Priority, error) {
	if !f.ciMode {
		return "", nil
	}
	return domain.ParsePriority(f.failOn)
}

// print writes the run to stdout and applies the CI exit policy.
func (f *runFlags) print(cmd *cobra.Command, run *domain.RunResult, failOn domain.Priority) error {
	out := cmd.OutOrStdout()
	if f.jsonOutput {
		if err := report.RenderJSON(out, run.Report); err != nil {
			return fmt.Errorf("rendering JSON: %w", err)
		}
	} else {
		fmt.Fprint(out, tui.RenderReport(run.Report))
		if f.hotspots {
			fmt.Fprint(out, tui.RenderHotspots(run.Result))
		}
		for _, p := range run.ReportPaths {
			fmt.Fprintf(out, "  report written to %s\n", p)
		}
	}

	if f.ciMode {
		if n := run.Result.Metrics.CountAtOrAbove(failOn); n > 0 {
			return fmt.Errorf("%d findings at or above %s", n, failOn)
		}
	}
	return nil
}
