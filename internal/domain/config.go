package domain

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

const (
	// DefaultOutputDir is where baselines, history and reports live, relative to the project root.
	DefaultOutputDir = ".kodeguard"

	DefaultFileTimeout        = 10 * time.Second
	DefaultMaxFileBytes int64 = 2 << 20
)

// Store kinds.
const (
	StoreFile   = "file"
	StoreBadger = "badger"
)

// Report formats. Text is always written.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// DefaultExtensions are the file extensions scanned when the config names none.
var DefaultExtensions = []string{".kt", ".kts", ".xml", ".properties", ".json"}

var validStores = []string{StoreFile, StoreBadger}

var validFormats = []string{FormatText, FormatJSON, FormatSARIF}

// Thresholds parameterise the size and complexity rules.
type Thresholds struct {
	ComplexityComment int `yaml:"complexity_comment" json:"complexity_comment"`
	ComplexityMax     int `yaml:"complexity_max"     json:"complexity_max"`
	NestingMax        int `yaml:"nesting_max"        json:"nesting_max"`
	FunctionLines     int `yaml:"function_lines"     json:"function_lines"`
	Parameters        int `yaml:"parameters"         json:"parameters"`
	FileLines         int `yaml:"file_lines"         json:"file_lines"`
	DocMinParams      int `yaml:"doc_min_params"     json:"doc_min_params"`
}

// DefaultThresholds returns the built-in limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ComplexityComment: 10,
		ComplexityMax:     15,
		NestingMax:        4,
		FunctionLines:     60,
		Parameters:        6,
		FileLines:         600,
		DocMinParams:      3,
	}
}

// ThresholdOverrides lets users override specific limits.
// Pointer types distinguish "not specified" from zero values.
type ThresholdOverrides struct {
	ComplexityComment *int `yaml:"complexity_comment,omitempty" json:"complexity_comment,omitempty"`
	ComplexityMax     *int `yaml:"complexity_max,omitempty"     json:"complexity_max,omitempty"`
	NestingMax        *int `yaml:"nesting_max,omitempty"        json:"nesting_max,omitempty"`
	FunctionLines     *int `yaml:"function_lines,omitempty"     json:"function_lines,omitempty"`
	Parameters        *int `yaml:"parameters,omitempty"         json:"parameters,omitempty"`
	FileLines         *int `yaml:"file_lines,omitempty"         json:"file_lines,omitempty"`
	DocMinParams      *int `yaml:"doc_min_params,omitempty"     json:"doc_min_params,omitempty"`
}

// AnalyzerConfig switches analyzers off by id.
type AnalyzerConfig struct {
	Disabled []string `yaml:"disabled" json:"disabled,omitempty"`
}

type BaselineConfig struct {
	Store string `yaml:"store" json:"store,omitempty"`
}

type ReportConfig struct {
	Formats []string `yaml:"formats" json:"formats,omitempty"`
}

// ProjectConfig holds project-level configuration loaded from .kodeguard.yaml.
type ProjectConfig struct {
	ExcludePaths []string           `yaml:"exclude_paths"  json:"exclude_paths,omitempty"`
	Extensions   []string           `yaml:"extensions"     json:"extensions,omitempty"`
	OutputDir    string             `yaml:"output_dir"     json:"output_dir,omitempty"`
	Analyzers    AnalyzerConfig     `yaml:"analyzers"      json:"analyzers,omitempty"`
	Thresholds   ThresholdOverrides `yaml:"thresholds"     json:"thresholds,omitempty"`
	Baseline     BaselineConfig     `yaml:"baseline"       json:"baseline,omitempty"`
	Report       ReportConfig       `yaml:"report"         json:"report,omitempty"`
	Workers      int                `yaml:"workers"        json:"workers,omitempty"`
	FileTimeout  string             `yaml:"file_timeout"   json:"file_timeout,omitempty"`
	MaxFileBytes int64              `yaml:"max_file_bytes" json:"max_file_bytes,omitempty"`
}

// DefaultConfig returns a zero-value config that changes nothing.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{}
}

// IsDisabled reports whether the analyzer id is switched off.
func (c ProjectConfig) IsDisabled(id string) bool {
	for _, d := range c.Analyzers.Disabled {
		if d == id {
			return true
		}
	}
	return false
}

func (c ProjectConfig) EffectiveOutputDir() string {
	if c.OutputDir == "" {
		return DefaultOutputDir
	}
	return c.OutputDir
}

// EffectiveExtensions normalises configured extensions to lower case with a leading dot.
func (c ProjectConfig) EffectiveExtensions() []string {
	if len(c.Extensions) == 0 {
		return DefaultExtensions
	}
	exts := make([]string, 0, len(c.Extensions))
	for _, e := range c.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

// EffectiveThresholds merges overrides onto the defaults.
func (c ProjectConfig) EffectiveThresholds() Thresholds {
	t := DefaultThresholds()
	o := c.Thresholds
	apply := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&t.ComplexityComment, o.ComplexityComment)
	apply(&t.ComplexityMax, o.ComplexityMax)
	apply(&t.NestingMax, o.NestingMax)
	apply(&t.FunctionLines, o.FunctionLines)
	apply(&t.Parameters, o.Parameters)
	apply(&t.FileLines, o.FileLines)
	apply(&t.DocMinParams, o.DocMinParams)
	return t
}

func (c ProjectConfig) EffectiveStore() string {
	if c.Baseline.Store == "" {
		return StoreFile
	}
	return c.Baseline.Store
}

// EffectiveFormats always includes text, first, without duplicates.
func (c ProjectConfig) EffectiveFormats() []string {
	formats := []string{FormatText}
	for _, f := range c.Report.Formats {
		f = strings.ToLower(f)
		if !contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats
}

func (c ProjectConfig) EffectiveWorkers() int {
	if c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// EffectiveFileTimeout assumes Validate has passed.
func (c ProjectConfig) EffectiveFileTimeout() time.Duration {
	if c.FileTimeout == "" {
		return DefaultFileTimeout
	}
	d, err := time.ParseDuration(c.FileTimeout)
	if err != nil || d <= 0 {
		return DefaultFileTimeout
	}
	return d
}

func (c ProjectConfig) EffectiveMaxFileBytes() int64 {
	if c.MaxFileBytes <= 0 {
		return DefaultMaxFileBytes
	}
	return c.MaxFileBytes
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	// 1. baseline.store must be known or empty
	if c.Baseline.Store != "" && !contains(validStores, c.Baseline.Store) {
		return fmt.Errorf("unknown baseline.store %q (valid: file, badger)", c.Baseline.Store)
	}

	// 2. report.formats must be known
	for _, f := range c.Report.Formats {
		if !contains(validFormats, strings.ToLower(f)) {
			return fmt.Errorf("unknown report format %q (valid: text, json, sarif)", f)
		}
	}

	// 3. workers and max_file_bytes must not be negative
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}
	if c.MaxFileBytes < 0 {
		return fmt.Errorf("max_file_bytes must be >= 0 (got %d)", c.MaxFileBytes)
	}

	// 4. file_timeout must parse as a positive duration
	if c.FileTimeout != "" {
		d, err := time.ParseDuration(c.FileTimeout)
		if err != nil {
			return fmt.Errorf("file_timeout %q: %w", c.FileTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("file_timeout must be positive (got %s)", c.FileTimeout)
		}
	}

	// 5. extensions must be non-empty strings
	for _, e := range c.Extensions {
		if strings.TrimSpace(e) == "" || strings.TrimSpace(e) == "." {
			return fmt.Errorf("extensions must not contain empty entries")
		}
	}

	// 6. output_dir must stay inside the project
	if strings.HasPrefix(c.OutputDir, "/") || strings.HasPrefix(c.OutputDir, "..") {
		return fmt.Errorf("output_dir %q must be relative to the project root", c.OutputDir)
	}

	// 7. threshold overrides must be > 0 if set
	return c.Thresholds.validate()
}

func (t ThresholdOverrides) validate() error {
	fields := []struct {
		name string
		ptr  *int
	}{
		{"complexity_comment", t.ComplexityComment},
		{"complexity_max", t.ComplexityMax},
		{"nesting_max", t.NestingMax},
		{"function_lines", t.FunctionLines},
		{"parameters", t.Parameters},
		{"file_lines", t.FileLines},
		{"doc_min_params", t.DocMinParams},
	}
	for _, f := range fields {
		if f.ptr != nil && *f.ptr <= 0 {
			return fmt.Errorf("thresholds.%s must be > 0 (got %d)", f.name, *f.ptr)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
