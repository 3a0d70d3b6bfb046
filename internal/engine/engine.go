// Package engine assembles the analysis pipeline for one project from its
// configuration and the outbound adapters.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/baseline"
	"github.com/abdidvp/kodeguard/internal/adapters/outbound/config"
	"github.com/abdidvp/kodeguard/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/kodeguard/internal/adapters/outbound/kotlinast"
	"github.com/abdidvp/kodeguard/internal/adapters/outbound/report"
	"github.com/abdidvp/kodeguard/internal/adapters/outbound/scanner"
	"github.com/abdidvp/kodeguard/internal/adapters/outbound/source"
	"github.com/abdidvp/kodeguard/internal/application"
	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/abdidvp/kodeguard/internal/domain/analysis"
)

// Options override parts of the project configuration at runtime. Zero values
// leave the configuration untouched.
type Options struct {
	// ConfigFile replaces <root>/.kodeguard.yaml.
	ConfigFile string
	Workers    int
	OutputDir  string
	Store      string
	// LineMetrics measures functions with the line-based extractor instead of
	// the syntax tree.
	LineMetrics bool
	// NoReports keeps reports in memory.
	NoReports bool
	Version   string
	Logger    *zap.SugaredLogger
	Clock     func() time.Time
}

// Engine is an opened project: its configuration, the orchestrator and the
// baseline store the orchestrator writes to.
type Engine struct {
	Root         string
	Config       domain.ProjectConfig
	Orchestrator *application.Orchestrator
	Baselines    *application.BaselineManager
	Scanner      *scanner.FileScanner
	Git          *gitinfo.GitInfoAdapter

	store domain.BaselineStore
}

// Open loads the project configuration and opens the baseline store. The
// caller must Close the engine.
func Open(projectPath string, opts Options) (*Engine, error) {
	root, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", projectPath, domain.ErrInvalidPath)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory: %w", projectPath, domain.ErrInvalidPath)
	}

	cfg, err := loadConfig(root, opts)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	store, err := baseline.Open(baseline.Dir(root, cfg.EffectiveOutputDir()), cfg.EffectiveStore())
	if err != nil {
		return nil, err
	}

	git := gitinfo.New()
	baselines := application.NewBaselineManager(store,
		application.WithClock(clock),
		application.WithVersionControl(git, root),
	)

	var extractor domain.FunctionExtractor = kotlinast.New()
	if opts.LineMetrics {
		extractor = analysis.NewLineExtractor()
	}
	suite := analysis.DefaultSuite(analysis.SuiteOptions{
		Thresholds: cfg.EffectiveThresholds(),
		Extractor:  extractor,
	})
	analyzers := analysis.Without(suite, cfg.Analyzers.Disabled)

	var reports domain.ReportWriter
	if !opts.NoReports {
		reports = report.NewFileWriter(report.Dir(root, cfg.EffectiveOutputDir()), cfg.EffectiveFormats(), opts.Version)
	}

	fs := scanner.New(cfg)
	orch := application.NewOrchestrator(application.OrchestratorConfig{
		Root:        root,
		Scanner:     fs,
		Reader:      source.NewReader(cfg.EffectiveMaxFileBytes()),
		Analyzers:   analyzers,
		Baselines:   baselines,
		Reports:     reports,
		Logger:      log,
		Workers:     cfg.EffectiveWorkers(),
		FileTimeout: cfg.EffectiveFileTimeout(),
		Clock:       clock,
	})

	log.Debugw("engine ready",
		"root", root,
		"analyzers", analysis.IDs(analyzers),
		"store", cfg.EffectiveStore(),
		"workers", cfg.EffectiveWorkers(),
	)

	return &Engine{
		Root:         root,
		Config:       cfg,
		Orchestrator: orch,
		Baselines:    baselines,
		Scanner:      fs,
		Git:          git,
		store:        store,
	}, nil
}

// Close releases the baseline store.
func (e *Engine) Close() error {
	return e.store.Close()
}

func loadConfig(root string, opts Options) (domain.ProjectConfig, error) {
	loader := config.New()
	var (
		cfg domain.ProjectConfig
		err error
	)
	if opts.ConfigFile != "" {
		cfg, err = loader.LoadFile(opts.ConfigFile)
	} else {
		cfg, err = loader.Load(root)
	}
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.Store != "" {
		cfg.Baseline.Store = opts.Store
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid overrides: %w: %w", domain.ErrInvalidConfig, err)
	}
	return cfg, nil
}
