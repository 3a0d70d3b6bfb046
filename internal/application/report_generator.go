package application

import (
	"fmt"
	"time"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// ReportInput is everything a report is built from.
type ReportInput struct {
	Mode          domain.RunMode
	Result        domain.AggregatedResult
	FilesAnalyzed int
	// Baseline enables the delta section when non-nil.
	Baseline    *domain.Baseline
	Skipped     []domain.SkippedFile
	GeneratedAt time.Time
}

// GenerateReport builds a report model. The output depends only on the input:
// groups run CRITICAL to LOW, then by category in enum order, with findings in
// canonical order inside each group.
func GenerateReport(in ReportInput) *domain.Report {
	m := in.Result.Metrics
	if m.ByPriority == nil {
		m = domain.NewMetrics()
	}
	r := &domain.Report{
		GeneratedAt: in.GeneratedAt.UTC(),
		Mode:        in.Mode,
		Summary:     domain.ReportSummary{Headline: headline(m, in.FilesAnalyzed), Metrics: m},
		Groups:      []domain.PriorityGroup{},
		Skipped:     in.Skipped,
	}

	for _, p := range domain.Priorities {
		byPriority := in.Result.ByPriority[p]
		if len(byPriority) == 0 {
			continue
		}
		group := domain.PriorityGroup{Priority: p}
		for _, c := range domain.Categories {
			var findings []domain.Finding
			for _, f := range byPriority {
				if f.Category == c {
					findings = append(findings, f)
				}
			}
			if len(findings) > 0 {
				group.Categories = append(group.Categories, domain.CategoryGroup{Category: c, Findings: findings})
			}
		}
		r.Groups = append(r.Groups, group)
	}

	if in.Baseline != nil {
		d := Diff(in.Baseline, in.Result.Findings)
		r.Delta = &d
	}
	return r
}

func headline(m domain.Metrics, filesAnalyzed int) string {
	if m.Total == 0 {
		return fmt.Sprintf("All clear: no findings in %s", plural(filesAnalyzed, "file"))
	}
	h := fmt.Sprintf("%s in %s", plural(m.Total, "finding"), plural(m.FilesWithFindings, "file"))
	if urgent := m.CountAtOrAbove(domain.PriorityHigh); urgent > 0 {
		h += fmt.Sprintf(", %d high priority or above", urgent)
	}
	return h
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
