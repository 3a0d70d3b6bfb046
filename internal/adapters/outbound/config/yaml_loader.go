package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdidvp/kodeguard/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the project root.
const FileName = ".kodeguard.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .kodeguard.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .kodeguard.yaml from projectPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	cfg, err := l.LoadFile(filepath.Join(projectPath, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile reads an explicit configuration file. A missing file is an error
// wrapping os.ErrNotExist; parse and validation failures wrap domain.ErrInvalidConfig.
func (l *YAMLLoader) LoadFile(path string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ProjectConfig{}, err
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w: %w", filepath.Base(path), domain.ErrInvalidConfig, err)
	}

	// Validate the raw input so typos surface before defaults hide them.
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w: %w", filepath.Base(path), domain.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Template renders a commented starter configuration with the built-in defaults.
func Template() string {
	th := domain.DefaultThresholds()
	return fmt.Sprintf(`# kodeguard configuration

# Extensions scanned (default: %s)
# extensions: [".kt", ".kts", ".xml"]

# Directory names or project-relative paths to skip.
# build/ and generated/ are always skipped.
exclude_paths: []

# Where baselines, history and reports are written.
output_dir: %s

analyzers:
  # Any of: architecture, persistence, code_smell, compose, injection,
  # documentation, naming, performance, security, state, test_coverage
  disabled: []

thresholds:
  complexity_comment: %d
  complexity_max: %d
  nesting_max: %d
  function_lines: %d
  parameters: %d
  file_lines: %d
  doc_min_params: %d

baseline:
  store: %s # file or badger

report:
  formats: [text, json] # text is always written; sarif is also available

# workers: 8
file_timeout: %s
max_file_bytes: %d
`,
		domain.DefaultExtensions, domain.DefaultOutputDir,
		th.ComplexityComment, th.ComplexityMax, th.NestingMax, th.FunctionLines,
		th.Parameters, th.FileLines, th.DocMinParams,
		domain.StoreFile, domain.DefaultFileTimeout, domain.DefaultMaxFileBytes)
}
