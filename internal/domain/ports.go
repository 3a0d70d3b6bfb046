package domain

import "context"

// Analyzer is one rule checker. AppliesTo must decide from metadata alone;
// Analyze must be safe for concurrent use and depend only on its inputs.
type Analyzer interface {
	ID() string
	Name() string
	Category() Category
	AppliesTo(file FileInfo) bool
	Analyze(file FileInfo, content []byte) ([]Finding, error)
}

// FileScanner enumerates candidate files under a project root.
type FileScanner interface {
	ScanDirectory(root string) ([]FileInfo, error)
	ScanPaths(root string, paths []string) ([]FileInfo, error)
	FilterFiles(files []FileInfo) []FileInfo
}

// ContentReader reads a file's bytes.
type ContentReader interface {
	Read(path string) ([]byte, error)
}

// Param is one declared function parameter.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FunctionInfo carries per-function structural metrics.
type FunctionInfo struct {
	Name         string   `json:"name"`
	StartLine    int      `json:"start_line"`
	EndLine      int      `json:"end_line"`
	Params       []Param  `json:"params,omitempty"`
	Annotations  []string `json:"annotations,omitempty"`
	Complexity   int      `json:"complexity"`
	MaxNesting   int      `json:"max_nesting"`
	CommentCount int      `json:"comment_count"`
	Public       bool     `json:"public"`
	Override     bool     `json:"override,omitempty"`
	HasDoc       bool     `json:"has_doc"`
}

// Lines returns the function's length in lines, signature included.
func (f FunctionInfo) Lines() int { return f.EndLine - f.StartLine + 1 }

// HasAnnotation reports whether the function carries the named annotation (without '@').
func (f FunctionInfo) HasAnnotation(name string) bool {
	for _, a := range f.Annotations {
		if a == name {
			return true
		}
	}
	return false
}

// FunctionExtractor builds per-function metrics from Kotlin source.
type FunctionExtractor interface {
	Extract(content []byte) ([]FunctionInfo, error)
}

// BaselineStore persists the baseline snapshot and the run history.
type BaselineStore interface {
	LoadBaseline(ctx context.Context) (*Baseline, error)
	SaveBaseline(ctx context.Context, b Baseline) error
	AppendHistory(ctx context.Context, entry HistoryEntry) error
	LoadHistory(ctx context.Context) ([]HistoryEntry, error)
	Close() error
}

// ReportWriter renders a report to its configured destinations and returns the written paths.
type ReportWriter interface {
	Write(ctx context.Context, report *Report) ([]string, error)
}

// ConfigLoader loads project configuration from a project directory.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// VersionControl reads revision metadata for a project. Missing repositories are errors.
type VersionControl interface {
	CommitHash(projectPath string) (string, error)
	// ChangedFiles lists files with uncommitted changes, untracked ones included,
	// relative to projectPath.
	ChangedFiles(projectPath string) ([]string, error)
}
