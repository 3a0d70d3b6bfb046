package application

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// OrchestratorConfig wires an Orchestrator. Scanner, Reader and Analyzers are
// required; everything else has a usable zero value.
type OrchestratorConfig struct {
	Root      string
	Scanner   domain.FileScanner
	Reader    domain.ContentReader
	Analyzers []domain.Analyzer
	// Baselines is consulted by full runs only. Nil disables baseline diffing
	// and history.
	Baselines *BaselineManager
	// Reports receives every generated report. Nil keeps reports in memory.
	Reports     domain.ReportWriter
	Logger      *zap.SugaredLogger
	Workers     int
	FileTimeout time.Duration
	Clock       func() time.Time
}

// Orchestrator runs the analysis pipeline: select files, read each once, run
// every applicable analyzer, aggregate, diff against the baseline and report.
type Orchestrator struct {
	cfg OrchestratorConfig
	log *zap.SugaredLogger
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.FileTimeout <= 0 {
		cfg.FileTimeout = domain.DefaultFileTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Orchestrator{cfg: cfg, log: log}
}

// Analyzers returns the registered analyzers in registry order.
func (o *Orchestrator) Analyzers() []domain.Analyzer {
	return append([]domain.Analyzer(nil), o.cfg.Analyzers...)
}

// AnalyzeAll scans the whole project, reports the delta against the previous
// baseline and then replaces the baseline and appends to the history.
func (o *Orchestrator) AnalyzeAll(ctx context.Context) (*domain.RunResult, error) {
	var baseline *domain.Baseline
	if o.cfg.Baselines != nil {
		b, err := o.cfg.Baselines.Load(ctx)
		if err != nil {
			return nil, err
		}
		baseline = b
	}

	files, err := o.cfg.Scanner.ScanDirectory(o.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	files = o.cfg.Scanner.FilterFiles(files)

	run, err := o.analyze(ctx, domain.ModeFull, files, o.cfg.Analyzers)
	if err != nil {
		return nil, err
	}
	if err := o.finish(ctx, run, baseline); err != nil {
		return nil, err
	}

	if o.cfg.Baselines != nil {
		if _, err := o.cfg.Baselines.Save(ctx, run.Result.Metrics, run.Result.Findings); err != nil {
			return nil, err
		}
		if err := o.cfg.Baselines.AppendHistory(ctx, run.Result, run.FilesAnalyzed); err != nil {
			return nil, err
		}
	}
	return run, nil
}

// AnalyzeIncremental analyzes only the given paths, relative to the root or
// absolute, expanding directories. The baseline is neither read nor written.
func (o *Orchestrator) AnalyzeIncremental(ctx context.Context, paths []string) (*domain.RunResult, error) {
	files, err := o.cfg.Scanner.ScanPaths(o.cfg.Root, paths)
	if err != nil {
		return nil, fmt.Errorf("resolving incremental paths: %w", err)
	}
	files = o.cfg.Scanner.FilterFiles(files)

	run, err := o.analyze(ctx, domain.ModeIncremental, files, o.cfg.Analyzers)
	if err != nil {
		return nil, err
	}
	if err := o.finish(ctx, run, nil); err != nil {
		return nil, err
	}
	return run, nil
}

// AnalyzeWithFilters runs only the named analyzers over paths, or over the
// whole project when paths is nil. Unknown analyzer ids are ignored. When no
// known analyzer remains, the result is empty and no file is scanned.
func (o *Orchestrator) AnalyzeWithFilters(ctx context.Context, paths []string, analyzerIDs []string) (*domain.RunResult, error) {
	analyzers := o.selectAnalyzers(analyzerIDs)

	var files []domain.FileInfo
	if len(analyzers) > 0 {
		var err error
		if paths == nil {
			files, err = o.cfg.Scanner.ScanDirectory(o.cfg.Root)
		} else {
			files, err = o.cfg.Scanner.ScanPaths(o.cfg.Root, paths)
		}
		if err != nil {
			return nil, fmt.Errorf("selecting files: %w", err)
		}
		files = o.cfg.Scanner.FilterFiles(files)
	}

	run, err := o.analyze(ctx, domain.ModeFiltered, files, analyzers)
	if err != nil {
		return nil, err
	}
	if err := o.finish(ctx, run, nil); err != nil {
		return nil, err
	}
	return run, nil
}

func (o *Orchestrator) selectAnalyzers(ids []string) []domain.Analyzer {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Analyzer
	for _, a := range o.cfg.Analyzers {
		if want[a.ID()] {
			out = append(out, a)
			delete(want, a.ID())
		}
	}
	for id := range want {
		o.log.Debugw("ignoring unknown analyzer", "analyzer", id)
	}
	return out
}

// finish builds the report and hands it to the writer.
func (o *Orchestrator) finish(ctx context.Context, run *domain.RunResult, baseline *domain.Baseline) error {
	run.Report = GenerateReport(ReportInput{
		Mode:          run.Mode,
		Result:        run.Result,
		FilesAnalyzed: run.FilesAnalyzed,
		Baseline:      baseline,
		Skipped:       run.Skipped,
		GeneratedAt:   o.cfg.Clock(),
	})
	if o.cfg.Reports == nil {
		return nil
	}
	paths, err := o.cfg.Reports.Write(ctx, run.Report)
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	run.ReportPaths = paths
	return nil
}

// analyze fans files out over the worker pool. Per-file and per-analyzer
// failures are logged and recorded as skipped; only cancellation of ctx fails
// the run.
func (o *Orchestrator) analyze(ctx context.Context, mode domain.RunMode, files []domain.FileInfo, analyzers []domain.Analyzer) (*domain.RunResult, error) {
	c := &collector{log: o.log}

	if len(analyzers) > 0 {
		g := new(errgroup.Group)
		g.SetLimit(o.cfg.Workers)
		for _, f := range files {
			if ctx.Err() != nil {
				break
			}
			applicable := o.applicable(f, analyzers)
			if len(applicable) == 0 {
				continue
			}
			g.Go(func() error {
				o.analyzeFile(ctx, c, f, applicable)
				return nil
			})
		}
		_ = g.Wait()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis interrupted: %w", err)
	}

	findings := c.results()
	assignIDs(findings)
	o.log.Debugw("analysis complete", "mode", mode, "files", c.analyzed, "findings", len(findings), "skipped", len(c.skipped))
	return &domain.RunResult{
		Mode:          mode,
		Result:        Aggregate(findings),
		FilesAnalyzed: c.analyzed,
		Skipped:       c.skippedSorted(),
	}, nil
}

// applicable asks each analyzer whether it wants the file. A panicking
// AppliesTo counts as a refusal.
func (o *Orchestrator) applicable(f domain.FileInfo, analyzers []domain.Analyzer) []domain.Analyzer {
	var out []domain.Analyzer
	for _, a := range analyzers {
		ok := func() (ok bool) {
			defer func() {
				if r := recover(); r != nil {
					o.log.Warnw("analyzer AppliesTo panicked", "analyzer", a.ID(), "file", f.RelPath, "panic", r)
					ok = false
				}
			}()
			return a.AppliesTo(f)
		}()
		if ok {
			out = append(out, a)
		}
	}
	return out
}

func (o *Orchestrator) analyzeFile(ctx context.Context, c *collector, f domain.FileInfo, analyzers []domain.Analyzer) {
	content, err := o.cfg.Reader.Read(f.Path)
	if err != nil {
		o.log.Warnw("skipping unreadable file", "file", f.RelPath, "error", err)
		c.skip(domain.SkippedFile{File: f.RelPath, Reason: err.Error()})
		return
	}
	c.read()

	for _, a := range analyzers {
		if ctx.Err() != nil {
			return
		}
		findings, err := o.runPair(ctx, a, f, content)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			o.log.Warnw("analyzer failed", "analyzer", a.ID(), "file", f.RelPath, "error", err)
			c.skip(domain.SkippedFile{File: f.RelPath, Analyzer: a.ID(), Reason: err.Error()})
			continue
		}
		c.add(a.ID(), f.RelPath, findings)
	}
}

type pairResult struct {
	findings []domain.Finding
	err      error
}

// runPair runs one analyzer on one file under the per-pair timeout. A pair
// that overruns is abandoned; its goroutine finishes in the background and the
// result is discarded.
func (o *Orchestrator) runPair(ctx context.Context, a domain.Analyzer, f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	done := make(chan pairResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- pairResult{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		findings, err := a.Analyze(f, content)
		done <- pairResult{findings: findings, err: err}
	}()

	timer := time.NewTimer(o.cfg.FileTimeout)
	defer timer.Stop()
	select {
	case r := <-done:
		return r.findings, r.err
	case <-timer.C:
		return nil, fmt.Errorf("timed out after %s", o.cfg.FileTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// collector accumulates worker output.
type collector struct {
	log      *zap.SugaredLogger
	mu       sync.Mutex
	findings []domain.Finding
	skipped  []domain.SkippedFile
	analyzed int
}

func (c *collector) read() {
	c.mu.Lock()
	c.analyzed++
	c.mu.Unlock()
}

func (c *collector) skip(s domain.SkippedFile) {
	c.mu.Lock()
	c.skipped = append(c.skipped, s)
	c.mu.Unlock()
}

// add keeps the findings that honour the finding contract and drops the rest
// with a warning. Analyzer and file are filled in when the analyzer left them
// empty.
func (c *collector) add(analyzer, file string, findings []domain.Finding) {
	valid := make([]domain.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Analyzer == "" {
			f.Analyzer = analyzer
		}
		if f.File == "" {
			f.File = file
		}
		if err := f.Validate(); err != nil {
			c.log.Warnw("dropping invalid finding", "analyzer", analyzer, "file", file, "error", err)
			continue
		}
		valid = append(valid, f)
	}
	c.mu.Lock()
	c.findings = append(c.findings, valid...)
	c.mu.Unlock()
}

func (c *collector) results() []domain.Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Finding(nil), c.findings...)
}

func (c *collector) skippedSorted() []domain.SkippedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]domain.SkippedFile(nil), c.skipped...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Analyzer < out[j].Analyzer
	})
	return out
}

// assignIDs makes finding ids unique within the run. Findings are first put in
// canonical order so the suffixes do not depend on worker scheduling.
func assignIDs(findings []domain.Finding) {
	SortFindings(findings)
	seen := make(map[string]int, len(findings))
	for i := range findings {
		id := findings[i].ID
		if id == "" {
			id = findings[i].Identity()[:16]
		}
		seen[id]++
		if n := seen[id]; n > 1 {
			id = fmt.Sprintf("%s-%d", id, n)
			seen[id]++
		}
		findings[i].ID = id
	}
}
