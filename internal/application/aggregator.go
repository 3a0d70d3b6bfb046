package application

import (
	"sort"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// Aggregate orders findings canonically and derives the grouped views and
// metrics. The input slice is not modified. Any permutation of the same
// findings yields an identical result.
func Aggregate(findings []domain.Finding) domain.AggregatedResult {
	sorted := make([]domain.Finding, len(findings))
	copy(sorted, findings)
	SortFindings(sorted)

	res := domain.AggregatedResult{
		Findings:   sorted,
		Metrics:    domain.NewMetrics(),
		ByCategory: make(map[domain.Category][]domain.Finding),
		ByPriority: make(map[domain.Priority][]domain.Finding),
		ByFile:     make(map[string][]domain.Finding),
	}
	for _, f := range sorted {
		res.ByCategory[f.Category] = append(res.ByCategory[f.Category], f)
		res.ByPriority[f.Priority] = append(res.ByPriority[f.Priority], f)
		res.ByFile[f.File] = append(res.ByFile[f.File], f)

		res.Metrics.Total++
		res.Metrics.ByPriority[f.Priority]++
		res.Metrics.ByCategory[f.Category]++
		res.Metrics.ByEffort[f.Effort]++
		if f.AutoFixable {
			res.Metrics.AutoFixable++
		}
	}
	res.Metrics.FilesWithFindings = len(res.ByFile)
	return res
}

// SortFindings orders findings by file, line, column, analyzer and rule, then by ID,
// fingerprint and title so findings that share a location still sort the same way.
func SortFindings(findings []domain.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Analyzer != b.Analyzer {
			return a.Analyzer < b.Analyzer
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		if a.Fingerprint != b.Fingerprint {
			return a.Fingerprint < b.Fingerprint
		}
		return a.Title < b.Title
	})
}
