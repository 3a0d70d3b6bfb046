package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const hotspotMaxRows = 15

type hotspotRow struct {
	file   string
	counts map[domain.Priority]int
	total  int
	weight int
}

// RenderHotspots lists the files carrying the most findings, weighted by priority.
func RenderHotspots(res domain.AggregatedResult) string {
	if len(res.ByFile) == 0 {
		return "\n  " + passStyle.Render("No files with findings.") + "\n\n"
	}

	rows := make([]hotspotRow, 0, len(res.ByFile))
	for file, findings := range res.ByFile {
		r := hotspotRow{file: file, counts: map[domain.Priority]int{}, total: len(findings)}
		for _, f := range findings {
			r.counts[f.Priority]++
			r.weight += f.Priority.Rank() * f.Priority.Rank()
		}
		rows = append(rows, r)
	}

	// Heaviest first, then most findings, then alphabetical.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].weight != rows[j].weight {
			return rows[i].weight > rows[j].weight
		}
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].file < rows[j].file
	})

	var b strings.Builder
	b.WriteString("\n")
	hdrLine := fmt.Sprintf("  %-40s %4s %4s %4s %4s %6s", "File", "C", "H", "M", "L", "Total")
	b.WriteString(titleStyle.Render(hdrLine) + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 68)) + "\n")

	shown := min(hotspotMaxRows, len(rows))
	for _, r := range rows[:shown] {
		fmt.Fprintf(&b, "  %s %s %s %s %s %6d\n",
			dimStyle.Render(truncateOrPad(shortenPath(r.file), 40)),
			countCell(r.counts[domain.PriorityCritical], domain.PriorityCritical),
			countCell(r.counts[domain.PriorityHigh], domain.PriorityHigh),
			countCell(r.counts[domain.PriorityMedium], domain.PriorityMedium),
			countCell(r.counts[domain.PriorityLow], domain.PriorityLow),
			r.total,
		)
	}

	if remaining := len(rows) - shown; remaining > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  (%d more files)\n", remaining)))
	}
	b.WriteString("\n")
	return b.String()
}

func countCell(n int, p domain.Priority) string {
	s := fmt.Sprintf("%4d", n)
	if n == 0 {
		return faintStyle.Render(s)
	}
	return styleFor(p).Render(s)
}

func styleFor(p domain.Priority) lipgloss.Style {
	if p == domain.PriorityMedium {
		return warnStyle
	}
	return lipgloss.NewStyle().Foreground(priorityColor(p))
}
