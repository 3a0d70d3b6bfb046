package tui_test

import (
	"strings"
	"testing"
	"time"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/tui"
	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/abdidvp/kodeguard/internal/domain/analysis"
	"github.com/stretchr/testify/assert"
)

func finding(file string, line int, p domain.Priority, c domain.Category, title string) domain.Finding {
	return domain.Finding{
		Analyzer: string(c), Rule: "rule", Category: c, Priority: p, Effort: domain.EffortSmall,
		Title: title, File: file, Line: line, Recommendation: "Do the right thing.",
	}
}

func sampleReport() *domain.Report {
	secret := finding("app/src/main/java/com/shop/net/ApiKeys.kt", 3, domain.PriorityCritical, domain.CategorySecurity, "Hardcoded secret")
	rename := finding("app/src/main/java/com/shop/Config.kt", 1, domain.PriorityLow, domain.CategoryNaming, "Constant is not UPPER_SNAKE_CASE")
	rename.AutoFixable = true
	rename.Fix = &domain.FixDescriptor{Kind: "rename", Replacement: "MAX_RETRIES"}

	m := domain.NewMetrics()
	m.Total = 2
	m.ByPriority[domain.PriorityCritical] = 1
	m.ByPriority[domain.PriorityLow] = 1
	m.ByCategory[domain.CategorySecurity] = 1
	m.ByCategory[domain.CategoryNaming] = 1
	m.AutoFixable = 1

	return &domain.Report{
		Mode:    domain.ModeFull,
		Summary: domain.ReportSummary{Headline: "2 findings in 2 files", Metrics: m},
		Groups: []domain.PriorityGroup{
			{Priority: domain.PriorityCritical, Categories: []domain.CategoryGroup{{Category: domain.CategorySecurity, Findings: []domain.Finding{secret}}}},
			{Priority: domain.PriorityLow, Categories: []domain.CategoryGroup{{Category: domain.CategoryNaming, Findings: []domain.Finding{rename}}}},
		},
		Delta:   &domain.Delta{New: []domain.Finding{secret}},
		Skipped: []domain.SkippedFile{{File: "Huge.kt", Reason: "file exceeds size limit"}},
	}
}

func TestRenderReport_Header(t *testing.T) {
	output := tui.RenderReport(sampleReport())
	assert.Contains(t, output, "kodeguard")
	assert.Contains(t, output, "2 findings in 2 files")
	assert.Contains(t, output, "1 critical")
	assert.Contains(t, output, "0 high")
}

func TestRenderReport_CategoriesAndBars(t *testing.T) {
	output := tui.RenderReport(sampleReport())
	assert.Contains(t, output, "security")
	assert.Contains(t, output, "naming")
	assert.Contains(t, output, "█")
}

func TestRenderReport_FindingsInPriorityOrder(t *testing.T) {
	output := tui.RenderReport(sampleReport())
	critical := strings.Index(output, "Hardcoded secret")
	low := strings.Index(output, "Constant is not UPPER_SNAKE_CASE")
	assert.True(t, critical >= 0 && low >= 0)
	assert.Less(t, critical, low, "critical findings come first")
	assert.Contains(t, output, "shop/net/ApiKeys.kt:3")
	assert.Contains(t, output, "fix: MAX_RETRIES")
}

func TestRenderReport_DeltaAndSkipped(t *testing.T) {
	output := tui.RenderReport(sampleReport())
	assert.Contains(t, output, "Since baseline")
	assert.Contains(t, output, "+1 new")
	assert.Contains(t, output, "-0 resolved")
	assert.Contains(t, output, "Skipped")
	assert.Contains(t, output, "file exceeds size limit")
	assert.Contains(t, output, "○")
}

func TestRenderReport_Clean(t *testing.T) {
	r := &domain.Report{
		Mode:    domain.ModeIncremental,
		Summary: domain.ReportSummary{Headline: "All clear: no findings in 3 files", Metrics: domain.NewMetrics()},
	}
	output := tui.RenderReport(r)
	assert.Contains(t, output, "All clear")
	assert.Contains(t, output, "incremental run")
	assert.NotContains(t, output, "Since baseline")
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Contains(t, tui.RenderHistory(nil), "No run history found.")
}

func TestRenderHistory_ShowsTrend(t *testing.T) {
	first := domain.NewMetrics()
	first.Total = 5
	second := domain.NewMetrics()
	second.Total = 3
	third := domain.NewMetrics()
	third.Total = 7

	entries := []domain.HistoryEntry{
		{Timestamp: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC), CommitHash: "abcdef1234567", FilesAnalyzed: 12, Result: domain.AggregatedResult{Metrics: first}},
		{Timestamp: time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC), FilesAnalyzed: 12, Result: domain.AggregatedResult{Metrics: second}},
		{Timestamp: time.Date(2026, 1, 4, 9, 0, 0, 0, time.UTC), FilesAnalyzed: 13, Result: domain.AggregatedResult{Metrics: third}},
	}
	output := tui.RenderHistory(entries)
	assert.Contains(t, output, "2026-01-02 09:00")
	assert.Contains(t, output, "abcdef1")
	assert.NotContains(t, output, "abcdef12")
	assert.Contains(t, output, "·······")
	assert.Contains(t, output, "↓2")
	assert.Contains(t, output, "↑4")
}

func TestRenderBaseline(t *testing.T) {
	assert.Contains(t, tui.RenderBaseline(nil), "No baseline yet")

	m := domain.NewMetrics()
	m.Total = 3
	m.ByPriority[domain.PriorityCritical] = 1
	m.ByPriority[domain.PriorityLow] = 2
	bl := &domain.Baseline{
		Timestamp:  time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC),
		CommitHash: "0123456789abcdef",
		Metrics:    m,
		Findings: []domain.BaselineFinding{
			{Identity: "a", File: "app/One.kt"},
			{Identity: "b", File: "app/Two.kt"},
			{Identity: "c", File: "app/Two.kt"},
		},
	}
	output := tui.RenderBaseline(bl)
	assert.Contains(t, output, "2026-02-01 08:30")
	assert.Contains(t, output, "0123456")
	assert.Contains(t, output, "3 accepted findings")
	assert.Contains(t, output, "1 critical")
	assert.Less(t, strings.Index(output, "Two.kt"), strings.Index(output, "One.kt"))
}

func TestRenderHotspots(t *testing.T) {
	res := domain.AggregatedResult{ByFile: map[string][]domain.Finding{
		"a/Low.kt": {
			finding("a/Low.kt", 1, domain.PriorityLow, domain.CategoryNaming, "x"),
			finding("a/Low.kt", 2, domain.PriorityLow, domain.CategoryNaming, "y"),
		},
		"a/Hot.kt": {finding("a/Hot.kt", 1, domain.PriorityCritical, domain.CategorySecurity, "z")},
	}}
	output := tui.RenderHotspots(res)
	assert.Less(t, strings.Index(output, "Hot.kt"), strings.Index(output, "Low.kt"), "critical outweighs two low findings")
	assert.Contains(t, output, "Total")
}

func TestRenderHotspots_Empty(t *testing.T) {
	assert.Contains(t, tui.RenderHotspots(domain.AggregatedResult{}), "No files with findings.")
}

func TestRenderAnalyzers(t *testing.T) {
	cfg := domain.ProjectConfig{Analyzers: domain.AnalyzerConfig{Disabled: []string{"naming"}}}
	output := tui.RenderAnalyzers(analysis.DefaultSuite(analysis.SuiteOptions{}), cfg)
	assert.Contains(t, output, "security")
	assert.Contains(t, output, "test_coverage")
	assert.Contains(t, output, "disabled")
	assert.Equal(t, 1, strings.Count(output, "disabled"))
}
