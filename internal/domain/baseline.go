package domain

import "time"

// BaselineFinding is the persisted trace of a finding, enough to compute and explain a delta.
type BaselineFinding struct {
	Identity string   `json:"identity"`
	Analyzer string   `json:"analyzer"`
	Rule     string   `json:"rule"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Title    string   `json:"title"`
	Priority Priority `json:"priority"`
}

// Baseline is the snapshot of the last completed full run.
type Baseline struct {
	Timestamp  time.Time         `json:"timestamp"`
	CommitHash string            `json:"commit_hash,omitempty"`
	Metrics    Metrics           `json:"metrics"`
	Findings   []BaselineFinding `json:"findings"`
}

// Identities returns the set of finding identities recorded in the baseline.
func (b *Baseline) Identities() map[string]bool {
	ids := make(map[string]bool, len(b.Findings))
	for _, f := range b.Findings {
		ids[f.Identity] = true
	}
	return ids
}

// NewBaselineFinding projects a finding onto its persisted form.
func NewBaselineFinding(f Finding) BaselineFinding {
	return BaselineFinding{
		Identity: f.Identity(),
		Analyzer: f.Analyzer,
		Rule:     f.Rule,
		File:     f.File,
		Line:     f.Line,
		Title:    f.Title,
		Priority: f.Priority,
	}
}

// HistoryEntry is one record of the append-only run log.
type HistoryEntry struct {
	Timestamp     time.Time        `json:"timestamp"`
	CommitHash    string           `json:"commit_hash,omitempty"`
	FilesAnalyzed int              `json:"files_analyzed"`
	Result        AggregatedResult `json:"result"`
}

// Delta compares the current findings with a baseline.
type Delta struct {
	New      []Finding         `json:"new"`
	Resolved []BaselineFinding `json:"resolved"`
}
