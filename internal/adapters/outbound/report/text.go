package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// RenderText writes the plain-text report. The layout is stable so reports can
// be diffed between runs.
func RenderText(w io.Writer, r *domain.Report) error {
	b := bufio.NewWriter(w)
	m := r.Summary.Metrics

	fmt.Fprintf(b, "kodeguard report (%s run, %s)\n", r.Mode, r.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(b, "%s\n\n", r.Summary.Headline)
	fmt.Fprintf(b, "Total: %d", m.Total)
	for _, p := range domain.Priorities {
		fmt.Fprintf(b, "  %s: %d", p, m.ByPriority[p])
	}
	fmt.Fprintf(b, "  Auto-fixable: %d  Files: %d\n", m.AutoFixable, m.FilesWithFindings)

	for _, g := range r.Groups {
		fmt.Fprintf(b, "\n== %s ==\n", g.Priority)
		for _, cg := range g.Categories {
			fmt.Fprintf(b, "-- %s (%d) --\n", cg.Category, len(cg.Findings))
			for _, f := range cg.Findings {
				writeFinding(b, f)
			}
		}
	}

	if d := r.Delta; d != nil {
		fmt.Fprintf(b, "\n== Since baseline ==\nNew: %d  Resolved: %d\n", len(d.New), len(d.Resolved))
		for _, f := range d.New {
			fmt.Fprintf(b, "+ %s:%d %s/%s %s\n", f.File, f.Line, f.Analyzer, f.Rule, f.Title)
		}
		for _, f := range d.Resolved {
			fmt.Fprintf(b, "- %s:%d %s/%s %s\n", f.File, f.Line, f.Analyzer, f.Rule, f.Title)
		}
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(b, "\n== Skipped (%d) ==\n", len(r.Skipped))
		for _, s := range r.Skipped {
			if s.Analyzer != "" {
				fmt.Fprintf(b, "%s [%s]: %s\n", s.File, s.Analyzer, s.Reason)
			} else {
				fmt.Fprintf(b, "%s: %s\n", s.File, s.Reason)
			}
		}
	}
	return b.Flush()
}

func writeFinding(b *bufio.Writer, f domain.Finding) {
	loc := fmt.Sprintf("%s:%d", f.File, f.Line)
	if f.Column > 0 {
		loc += fmt.Sprintf(":%d", f.Column)
	}
	fmt.Fprintf(b, "%s [%s/%s] %s (effort %s)\n", loc, f.Analyzer, f.Rule, f.Title, f.Effort)
	if f.Description != "" && f.Description != f.Title {
		fmt.Fprintf(b, "    %s\n", f.Description)
	}
	if f.CodeSnippet != "" {
		fmt.Fprintf(b, "    > %s\n", f.CodeSnippet)
	}
	fmt.Fprintf(b, "    Fix: %s\n", f.Recommendation)
	if f.AutoFixable && f.Fix != nil {
		fmt.Fprintf(b, "    Auto-fix (%s): %s\n", f.Fix.Kind, f.Fix.Replacement)
	}
	if f.BeforeExample != "" && f.AfterExample != "" {
		fmt.Fprintf(b, "    Before:\n%s\n    After:\n%s\n", indent(f.BeforeExample), indent(f.AfterExample))
	}
	for _, ref := range f.References {
		fmt.Fprintf(b, "    See: %s\n", ref)
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "      " + l
	}
	return strings.Join(lines, "\n")
}
