package domain

// Metrics summarises a set of findings. Every enum key is present, zero counts included,
// so the priority buckets always partition Total.
type Metrics struct {
	Total             int              `json:"total"`
	ByPriority        map[Priority]int `json:"by_priority"`
	ByCategory        map[Category]int `json:"by_category"`
	ByEffort          map[Effort]int   `json:"by_effort"`
	AutoFixable       int              `json:"auto_fixable"`
	FilesWithFindings int              `json:"files_with_findings"`
}

// NewMetrics returns metrics with every bucket initialised to zero.
func NewMetrics() Metrics {
	m := Metrics{
		ByPriority: make(map[Priority]int, len(Priorities)),
		ByCategory: make(map[Category]int, len(Categories)),
		ByEffort:   make(map[Effort]int, len(Efforts)),
	}
	for _, p := range Priorities {
		m.ByPriority[p] = 0
	}
	for _, c := range Categories {
		m.ByCategory[c] = 0
	}
	for _, e := range Efforts {
		m.ByEffort[e] = 0
	}
	return m
}

// AggregatedResult holds findings in canonical order plus derived views.
type AggregatedResult struct {
	Findings   []Finding              `json:"findings"`
	Metrics    Metrics                `json:"metrics"`
	ByCategory map[Category][]Finding `json:"by_category"`
	ByPriority map[Priority][]Finding `json:"by_priority"`
	ByFile     map[string][]Finding   `json:"by_file"`
}

// RunMode names the orchestrator entry point that produced a result.
type RunMode string

const (
	ModeFull        RunMode = "full"
	ModeIncremental RunMode = "incremental"
	ModeFiltered    RunMode = "filtered"
)

// SkippedFile records a file, or a single analyzer on a file, that produced no findings
// because of a failure.
type SkippedFile struct {
	File     string `json:"file"`
	Analyzer string `json:"analyzer,omitempty"`
	Reason   string `json:"reason"`
}

// RunResult is everything one orchestrator invocation produced.
type RunResult struct {
	Mode          RunMode          `json:"mode"`
	Result        AggregatedResult `json:"result"`
	FilesAnalyzed int              `json:"files_analyzed"`
	Skipped       []SkippedFile    `json:"skipped,omitempty"`
	Report        *Report          `json:"report,omitempty"`
	ReportPaths   []string         `json:"report_paths,omitempty"`
}

// CountAtOrAbove returns how many findings have at least the given priority.
func (m Metrics) CountAtOrAbove(p Priority) int {
	n := 0
	for prio, count := range m.ByPriority {
		if prio.Rank() >= p.Rank() {
			n += count
		}
	}
	return n
}
