package application

import (
	"context"
	"fmt"
	"time"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// BaselineManager reads and writes the baseline snapshot and the run history
// through an injected store.
type BaselineManager struct {
	store domain.BaselineStore
	vcs   domain.VersionControl
	root  string
	now   func() time.Time
}

// BaselineOption customises a BaselineManager.
type BaselineOption func(*BaselineManager)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) BaselineOption {
	return func(m *BaselineManager) { m.now = now }
}

// WithVersionControl stamps saved baselines and history entries with the
// commit hash of root. Lookup failures leave the hash empty.
func WithVersionControl(vcs domain.VersionControl, root string) BaselineOption {
	return func(m *BaselineManager) {
		m.vcs = vcs
		m.root = root
	}
}

func NewBaselineManager(store domain.BaselineStore, opts ...BaselineOption) *BaselineManager {
	m := &BaselineManager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load returns the stored baseline, or nil when none has been saved yet.
func (m *BaselineManager) Load(ctx context.Context) (*domain.Baseline, error) {
	b, err := m.store.LoadBaseline(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading baseline: %w", err)
	}
	return b, nil
}

// Save replaces the stored baseline with a snapshot of findings.
func (m *BaselineManager) Save(ctx context.Context, metrics domain.Metrics, findings []domain.Finding) (domain.Baseline, error) {
	b := domain.Baseline{
		Timestamp:  m.now().UTC(),
		CommitHash: m.commitHash(),
		Metrics:    metrics,
		Findings:   make([]domain.BaselineFinding, 0, len(findings)),
	}
	for _, f := range findings {
		b.Findings = append(b.Findings, domain.NewBaselineFinding(f))
	}
	if err := m.store.SaveBaseline(ctx, b); err != nil {
		return b, fmt.Errorf("saving baseline: %w", err)
	}
	return b, nil
}

// AppendHistory records one full run.
func (m *BaselineManager) AppendHistory(ctx context.Context, result domain.AggregatedResult, filesAnalyzed int) error {
	entry := domain.HistoryEntry{
		Timestamp:     m.now().UTC(),
		CommitHash:    m.commitHash(),
		FilesAnalyzed: filesAnalyzed,
		Result:        result,
	}
	if err := m.store.AppendHistory(ctx, entry); err != nil {
		return fmt.Errorf("appending history: %w", err)
	}
	return nil
}

// History returns every recorded run, oldest first.
func (m *BaselineManager) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	entries, err := m.store.LoadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

// Diff compares findings with a baseline by identity. New findings keep their
// input order; resolved entries keep the baseline's order.
func Diff(baseline *domain.Baseline, findings []domain.Finding) domain.Delta {
	d := domain.Delta{New: []domain.Finding{}, Resolved: []domain.BaselineFinding{}}
	if baseline == nil {
		d.New = append(d.New, findings...)
		return d
	}
	known := baseline.Identities()
	current := make(map[string]bool, len(findings))
	for _, f := range findings {
		id := f.Identity()
		current[id] = true
		if !known[id] {
			d.New = append(d.New, f)
		}
	}
	for _, bf := range baseline.Findings {
		if !current[bf.Identity] {
			d.Resolved = append(d.Resolved, bf)
		}
	}
	return d
}

func (m *BaselineManager) commitHash() string {
	if m.vcs == nil {
		return ""
	}
	hash, err := m.vcs.CommitHash(m.root)
	if err != nil {
		return ""
	}
	return hash
}
