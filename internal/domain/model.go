package domain

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Priority ranks how urgently a finding should be addressed.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// Priorities lists every priority, most urgent first. Reports group in this order.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities LOW < MEDIUM < HIGH < CRITICAL. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

func (p Priority) Valid() bool { return p.Rank() > 0 }

// ParsePriority accepts any letter case.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q (valid: low, medium, high, critical)", s)
	}
	return p, nil
}

// Effort estimates the work needed to resolve a finding.
type Effort string

const (
	EffortTrivial Effort = "TRIVIAL"
	EffortSmall   Effort = "SMALL"
	EffortMedium  Effort = "MEDIUM"
	EffortLarge   Effort = "LARGE"
)

// Efforts lists every effort level, smallest first.
var Efforts = []Effort{EffortTrivial, EffortSmall, EffortMedium, EffortLarge}

func (e Effort) Rank() int {
	switch e {
	case EffortTrivial:
		return 1
	case EffortSmall:
		return 2
	case EffortMedium:
		return 3
	case EffortLarge:
		return 4
	}
	return 0
}

func (e Effort) Valid() bool { return e.Rank() > 0 }

// Category is the closed set of rule families.
type Category string

const (
	CategoryArchitecture        Category = "architecture"
	CategoryPersistence         Category = "persistence"
	CategoryCodeSmell           Category = "code_smell"
	CategoryUI                  Category = "ui"
	CategoryDependencyInjection Category = "dependency_injection"
	CategoryDocumentation       Category = "documentation"
	CategoryNaming              Category = "naming"
	CategoryPerformance         Category = "performance"
	CategorySecurity            Category = "security"
	CategoryStateManagement     Category = "state_management"
	CategoryTestCoverage        Category = "test_coverage"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryArchitecture,
	CategoryPersistence,
	CategoryCodeSmell,
	CategoryUI,
	CategoryDependencyInjection,
	CategoryDocumentation,
	CategoryNaming,
	CategoryPerformance,
	CategorySecurity,
	CategoryStateManagement,
	CategoryTestCoverage,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Layer is the architectural layer a source file belongs to.
type Layer string

const (
	LayerNone         Layer = ""
	LayerPresentation Layer = "presentation"
	LayerDomain       Layer = "domain"
	LayerData         Layer = "data"
	LayerDI           Layer = "di"
)

// FileInfo describes one candidate source file. Produced fresh by each scan.
type FileInfo struct {
	Path    string    `json:"path"`
	RelPath string    `json:"rel_path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Layer   Layer     `json:"layer,omitempty"`
}

// Name returns the base file name.
func (f FileInfo) Name() string { return path.Base(f.RelPath) }

// Ext returns the lower-cased extension including the dot.
func (f FileInfo) Ext() string { return strings.ToLower(path.Ext(f.RelPath)) }

// IsTest reports whether the file belongs to a unit or instrumented test source set.
func (f FileInfo) IsTest() bool {
	rel := "/" + f.RelPath
	if strings.Contains(rel, "/src/test/") || strings.Contains(rel, "/src/androidTest/") {
		return true
	}
	base := strings.TrimSuffix(f.Name(), path.Ext(f.RelPath))
	return strings.HasSuffix(base, "Test") || strings.HasSuffix(base, "Tests")
}

// FixDescriptor describes a mechanical fix. Fixes are never applied.
type FixDescriptor struct {
	Kind        string `json:"kind"`
	Replacement string `json:"replacement,omitempty"`
}

// Finding is one rule violation at a location.
type Finding struct {
	ID              string         `json:"id"`
	Analyzer        string         `json:"analyzer"`
	Rule            string         `json:"rule"`
	Category        Category       `json:"category"`
	Priority        Priority       `json:"priority"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	File            string         `json:"file"`
	Line            int            `json:"line"`
	Column          int            `json:"column,omitempty"`
	CodeSnippet     string         `json:"code_snippet,omitempty"`
	Recommendation  string         `json:"recommendation"`
	BeforeExample   string         `json:"before_example,omitempty"`
	AfterExample    string         `json:"after_example,omitempty"`
	AutoFixable     bool           `json:"auto_fixable"`
	Fix             *FixDescriptor `json:"fix,omitempty"`
	Effort          Effort         `json:"effort"`
	References      []string       `json:"references,omitempty"`
	RelatedFindings []string       `json:"related_findings,omitempty"`
	Fingerprint     string         `json:"fingerprint"`
}

// Validate reports the first field that breaks the finding contract.
func (f Finding) Validate() error {
	if !f.Priority.Valid() {
		return fmt.Errorf("finding %s/%s: invalid priority %q", f.Analyzer, f.Rule, f.Priority)
	}
	if !f.Effort.Valid() {
		return fmt.Errorf("finding %s/%s: invalid effort %q", f.Analyzer, f.Rule, f.Effort)
	}
	if !f.Category.Valid() {
		return fmt.Errorf("finding %s/%s: invalid category %q", f.Analyzer, f.Rule, f.Category)
	}
	if f.Line < 1 {
		return fmt.Errorf("finding %s/%s: line must be >= 1 (got %d)", f.Analyzer, f.Rule, f.Line)
	}
	return nil
}

// Identity is the stable key used for baseline comparison.
func (f Finding) Identity() string {
	if f.Fingerprint != "" {
		return f.Fingerprint
	}
	return Fingerprint(f.Analyzer, f.Rule, f.File, LocationKey(f.CodeSnippet, f.Line, 0))
}
