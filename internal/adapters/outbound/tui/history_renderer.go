package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderHistory formats run history, oldest first, with the change in total
// findings between consecutive runs.
func RenderHistory(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		m := e.Result.Metrics
		total := lipgloss.NewStyle().
			Foreground(headlineColor(m)).
			Render(fmt.Sprintf("%d findings", m.Total))

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(e.Timestamp.UTC().Format("2006-01-02 15:04")),
			faintStyle.Render(hash),
			total,
			dimStyle.Render(fmt.Sprintf("%d files", e.FilesAnalyzed)),
			faintStyle.Render(fmt.Sprintf("C%d H%d M%d L%d",
				m.ByPriority[domain.PriorityCritical], m.ByPriority[domain.PriorityHigh],
				m.ByPriority[domain.PriorityMedium], m.ByPriority[domain.PriorityLow])),
		)

		if i > 0 {
			diff := m.Total - entries[i-1].Result.Metrics.Total
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderBaseline summarises the stored baseline: when it was taken, its
// totals per priority and the files carrying the most accepted findings.
func RenderBaseline(bl *domain.Baseline) string {
	if bl == nil {
		return "  " + dimStyle.Render("No baseline yet. Run kodeguard analyze to create one.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Baseline") + "  " +
		dimStyle.Render(bl.Timestamp.UTC().Format("2006-01-02 15:04")))
	if bl.CommitHash != "" {
		hash := bl.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		b.WriteString("  " + faintStyle.Render(hash))
	}
	b.WriteString("\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	m := bl.Metrics
	fmt.Fprintf(&b, "  %s  %s\n",
		lipgloss.NewStyle().Foreground(headlineColor(m)).Render(fmt.Sprintf("%d accepted findings", m.Total)),
		priorityTags(m),
	)

	perFile := make(map[string]int)
	for _, f := range bl.Findings {
		perFile[f.File]++
	}
	files := make([]string, 0, len(perFile))
	for f := range perFile {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		if perFile[files[i]] != perFile[files[j]] {
			return perFile[files[i]] > perFile[files[j]]
		}
		return files[i] < files[j]
	})
	if len(files) > 10 {
		files = files[:10]
	}
	if len(files) > 0 {
		b.WriteString("\n")
	}
	for _, f := range files {
		fmt.Fprintf(&b, "  %s %s\n",
			warnStyle.Render(fmt.Sprintf("%4d", perFile[f])),
			fileStyle.Render(shortenPath(f)),
		)
	}
	b.WriteString("\n")
	return b.String()
}
