package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ── warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	priorityColors = map[domain.Priority]lipgloss.Color{
		domain.PriorityCritical: danger,
		domain.PriorityHigh:     lipgloss.Color("#FB923C"), // orange
		domain.PriorityMedium:   warning,
		domain.PriorityLow:      info,
	}

	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	faintStyle   = lipgloss.NewStyle().Foreground(faint)
	passStyle    = lipgloss.NewStyle().Foreground(success)
	failStyle    = lipgloss.NewStyle().Foreground(danger)
	warnStyle    = lipgloss.NewStyle().Foreground(warning)
	skipStyle    = lipgloss.NewStyle().Foreground(skipColor)
	fileStyle    = lipgloss.NewStyle().Foreground(dim)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(fg)
	catNameStyle = lipgloss.NewStyle().Bold(true).Foreground(fg)
	hintStyle    = lipgloss.NewStyle().Foreground(dim).Italic(true)

	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a report for the terminal.
func RenderReport(r *domain.Report) string {
	var b strings.Builder
	m := r.Summary.Metrics

	// ── Header ──
	title := headerStyle.Render("kodeguard")
	subtitle := dimStyle.Render(fmt.Sprintf("Android Code Review · %s run", r.Mode))
	headline := lipgloss.NewStyle().Bold(true).Foreground(headlineColor(m)).Render(r.Summary.Headline)
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + headline + "\n" + priorityTags(m)))
	b.WriteString("\n\n")

	// ── Categories ──
	if m.Total > 0 {
		renderCategories(&b, m)
		b.WriteString("\n  " + separatorLine + "\n\n")
	}

	// ── Findings ──
	for _, g := range r.Groups {
		b.WriteString("  " + priorityTag(g.Priority) + "\n")
		for _, cg := range g.Categories {
			fmt.Fprintf(&b, "    %s %s\n", catNameStyle.Render(string(cg.Category)), dimStyle.Render(fmt.Sprintf("(%d)", len(cg.Findings))))
			for _, f := range cg.Findings {
				renderFinding(&b, f)
			}
		}
		b.WriteString("\n")
	}

	renderDelta(&b, r.Delta)
	renderSkipped(&b, r.Skipped)

	if m.AutoFixable > 0 {
		b.WriteString("  " + hintStyle.Render(fmt.Sprintf("%d findings carry a mechanical fix.", m.AutoFixable)) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func renderCategories(b *strings.Builder, m domain.Metrics) {
	most := 0
	for _, n := range m.ByCategory {
		most = max(most, n)
	}
	for _, c := range domain.Categories {
		n := m.ByCategory[c]
		if n == 0 {
			continue
		}
		name := catNameStyle.Render(padRight(string(c), 22))
		fmt.Fprintf(b, "  %s %s  %s\n", name, countBar(n, most, 20), dimStyle.Render(fmt.Sprintf("%d", n)))
	}
}

func renderFinding(b *strings.Builder, f domain.Finding) {
	loc := fmt.Sprintf("%s:%d", shortenPath(f.File), f.Line)
	fmt.Fprintf(b, "      %s %s %s\n",
		lipgloss.NewStyle().Foreground(priorityColor(f.Priority)).Render("●"),
		fileStyle.Render(loc),
		f.Title,
	)
	fmt.Fprintf(b, "        %s\n", dimStyle.Render(f.Recommendation))
	if f.AutoFixable && f.Fix != nil && f.Fix.Replacement != "" {
		fmt.Fprintf(b, "        %s\n", passStyle.Render("fix: "+f.Fix.Replacement))
	}
}

func renderDelta(b *strings.Builder, d *domain.Delta) {
	if d == nil {
		return
	}
	b.WriteString("  " + titleStyle.Render("Since baseline") + "  ")
	b.WriteString(failStyle.Render(fmt.Sprintf("+%d new", len(d.New))) + "  ")
	b.WriteString(passStyle.Render(fmt.Sprintf("-%d resolved", len(d.Resolved))) + "\n")
	for _, f := range d.New {
		fmt.Fprintf(b, "    %s %s\n", failStyle.Render("+"), fileStyle.Render(fmt.Sprintf("%s:%d", shortenPath(f.File), f.Line))+"  "+f.Title)
	}
	for _, f := range d.Resolved {
		fmt.Fprintf(b, "    %s %s\n", passStyle.Render("-"), fileStyle.Render(fmt.Sprintf("%s:%d", shortenPath(f.File), f.Line))+"  "+f.Title)
	}
	b.WriteString("\n")
}

func renderSkipped(b *strings.Builder, skipped []domain.SkippedFile) {
	if len(skipped) == 0 {
		return
	}
	b.WriteString("  " + titleStyle.Render("Skipped") + "  " + dimStyle.Render(fmt.Sprintf("(%d)", len(skipped))) + "\n")
	for _, s := range skipped {
		who := s.File
		if s.Analyzer != "" {
			who += " [" + s.Analyzer + "]"
		}
		fmt.Fprintf(b, "    %s %s  %s\n", skipStyle.Render("○"), skipStyle.Render(who), faintStyle.Render(s.Reason))
	}
	b.WriteString("\n")
}

func priorityTags(m domain.Metrics) string {
	parts := make([]string, 0, len(domain.Priorities))
	for _, p := range domain.Priorities {
		style := lipgloss.NewStyle().Foreground(priorityColor(p))
		if m.ByPriority[p] == 0 {
			style = faintStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", m.ByPriority[p], strings.ToLower(string(p)))))
	}
	return strings.Join(parts, "  ")
}

func priorityTag(p domain.Priority) string {
	return lipgloss.NewStyle().Bold(true).Foreground(priorityColor(p)).Render(string(p))
}

func priorityColor(p domain.Priority) lipgloss.Color {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return fg
}

func headlineColor(m domain.Metrics) lipgloss.Color {
	for _, p := range domain.Priorities {
		if m.ByPriority[p] > 0 {
			return priorityColor(p)
		}
	}
	return success
}

func countBar(n, most, width int) string {
	filled := width
	if most > 0 {
		filled = max(1, min(n*width/most, width))
	}
	empty := width - filled
	filledStr := lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

// shortenPath keeps the package-relevant tail of long Android source paths.
func shortenPath(path string) string {
	path = filepath.ToSlash(path)
	for _, marker := range []string{"/java/", "/kotlin/"} {
		if idx := strings.Index(path, marker); idx >= 0 {
			path = path[idx+len(marker):]
			break
		}
	}
	parts := strings.Split(path, "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncateOrPad(s string, width int) string {
	if len(s) > width {
		return s[:width-1] + "…"
	}
	return padRight(s, width)
}
