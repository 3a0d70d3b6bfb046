package tui

import (
	"fmt"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// RenderAnalyzers lists the registered analyzers and whether the project config
// switches them off.
func RenderAnalyzers(analyzers []domain.Analyzer, cfg domain.ProjectConfig) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Analyzers") + "  " + dimStyle.Render(fmt.Sprintf("(%d)", len(analyzers))) + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 64)) + "\n")

	for _, a := range analyzers {
		icon := passStyle.Render("●")
		state := ""
		if cfg.IsDisabled(a.ID()) {
			icon = skipStyle.Render("○")
			state = skipStyle.Render("disabled")
		}
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			icon,
			catNameStyle.Render(padRight(a.ID(), 16)),
			dimStyle.Render(padRight(string(a.Category()), 22)),
			state,
		)
		b.WriteString("      " + faintStyle.Render(a.Name()) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}
