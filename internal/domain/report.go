package domain

import "time"

// Report is the rendered-ready view of a run.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Mode        RunMode         `json:"mode"`
	Summary     ReportSummary   `json:"summary"`
	Groups      []PriorityGroup `json:"groups"`
	Delta       *Delta          `json:"delta,omitempty"`
	Skipped     []SkippedFile   `json:"skipped,omitempty"`
}

// ReportSummary carries the headline numbers of a report.
type ReportSummary struct {
	Headline string  `json:"headline"`
	Metrics  Metrics `json:"metrics"`
}

// PriorityGroup holds the findings of one priority, split by category.
type PriorityGroup struct {
	Priority   Priority        `json:"priority"`
	Categories []CategoryGroup `json:"categories"`
}

type CategoryGroup struct {
	Category Category  `json:"category"`
	Findings []Finding `json:"findings"`
}
