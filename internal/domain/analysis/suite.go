package analysis

import (
	"os"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// SuiteOptions configures the default analyzer suite.
type SuiteOptions struct {
	Thresholds domain.Thresholds
	// Extractor supplies function metrics; nil selects the line-based extractor.
	Extractor domain.FunctionExtractor
	// FileExists checks for test files; nil selects os.Stat.
	FileExists func(path string) bool
}

// DefaultSuite returns every analyzer in registry order. Analyzers run on a file
// in this order and are listed in it.
func DefaultSuite(opts SuiteOptions) []domain.Analyzer {
	if opts.Thresholds == (domain.Thresholds{}) {
		opts.Thresholds = domain.DefaultThresholds()
	}
	if opts.Extractor == nil {
		opts.Extractor = NewLineExtractor()
	}
	if opts.FileExists == nil {
		opts.FileExists = func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		}
	}
	return []domain.Analyzer{
		NewArchitectureAnalyzer(),
		NewPersistenceAnalyzer(),
		NewCodeSmellAnalyzer(opts.Thresholds, opts.Extractor),
		NewComposeAnalyzer(),
		NewInjectionAnalyzer(),
		NewDocumentationAnalyzer(opts.Thresholds),
		NewNamingAnalyzer(),
		NewPerformanceAnalyzer(),
		NewSecurityAnalyzer(),
		NewStateAnalyzer(),
		NewTestCoverageAnalyzer(opts.FileExists),
	}
}

// Select keeps the analyzers whose ids are listed, in registry order.
// Unknown ids are ignored.
func Select(suite []domain.Analyzer, ids []string) []domain.Analyzer {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Analyzer
	for _, a := range suite {
		if want[a.ID()] {
			out = append(out, a)
		}
	}
	return out
}

// Without drops the analyzers whose ids are listed.
func Without(suite []domain.Analyzer, ids []string) []domain.Analyzer {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := make([]domain.Analyzer, 0, len(suite))
	for _, a := range suite {
		if !drop[a.ID()] {
			out = append(out, a)
		}
	}
	return out
}

// IDs lists analyzer ids in order.
func IDs(suite []domain.Analyzer) []string {
	ids := make([]string, len(suite))
	for i, a := range suite {
		ids[i] = a.ID()
	}
	return ids
}
