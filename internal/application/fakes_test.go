package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// memStore is an in-memory domain.BaselineStore.
type memStore struct {
	mu       sync.Mutex
	baseline *domain.Baseline
	history  []domain.HistoryEntry
	saves    int
	loads    int
	err      error
}

func (s *memStore) LoadBaseline(context.Context) (*domain.Baseline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	if s.baseline == nil {
		return nil, nil
	}
	b := *s.baseline
	return &b, nil
}

func (s *memStore) SaveBaseline(_ context.Context, b domain.Baseline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.saves++
	s.baseline = &b
	return nil
}

func (s *memStore) AppendHistory(_ context.Context, e domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.history = append(s.history, e)
	return nil
}

func (s *memStore) LoadHistory(context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.HistoryEntry(nil), s.history...), nil
}

func (s *memStore) Close() error { return nil }

// fakeScanner serves a fixed file list and counts calls.
type fakeScanner struct {
	files   []domain.FileInfo
	scans   atomic.Int32
	pathErr error
}

func (s *fakeScanner) ScanDirectory(string) ([]domain.FileInfo, error) {
	s.scans.Add(1)
	return s.files, nil
}

func (s *fakeScanner) ScanPaths(_ string, paths []string) ([]domain.FileInfo, error) {
	s.scans.Add(1)
	if s.pathErr != nil {
		return nil, s.pathErr
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths given: %w", domain.ErrInvalidPath)
	}
	want := map[string]bool{}
	for _, p := range paths {
		want[p] = true
	}
	var out []domain.FileInfo
	for _, f := range s.files {
		if want[f.RelPath] {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeScanner) FilterFiles(files []domain.FileInfo) []domain.FileInfo { return files }

// mapReader serves content from memory and counts reads per path.
type mapReader struct {
	mu      sync.Mutex
	content map[string]string
	reads   map[string]int
}

func newMapReader(content map[string]string) *mapReader {
	return &mapReader{content: content, reads: map[string]int{}}
}

func (r *mapReader) Read(path string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads[path]++
	c, ok := r.content[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return []byte(c), nil
}

func (r *mapReader) totalReads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.reads {
		n += c
	}
	return n
}

// stubAnalyzer reports one finding per line containing marker.
type stubAnalyzer struct {
	id       string
	category domain.Category
	applies  func(domain.FileInfo) bool
	analyze  func(domain.FileInfo, []byte) ([]domain.Finding, error)
}

func (a *stubAnalyzer) ID() string                { return a.id }
func (a *stubAnalyzer) Name() string              { return a.id + " analyzer" }
func (a *stubAnalyzer) Category() domain.Category { return a.category }

func (a *stubAnalyzer) AppliesTo(f domain.FileInfo) bool {
	if a.applies == nil {
		return true
	}
	return a.applies(f)
}

func (a *stubAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	return a.analyze(f, content)
}

// markerAnalyzer flags every line that contains marker.
func markerAnalyzer(id, marker string, p domain.Priority) *stubAnalyzer {
	return &stubAnalyzer{
		id:       id,
		category: domain.CategoryCodeSmell,
		analyze: func(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
			var out []domain.Finding
			for i, line := range splitLines(string(content)) {
				if !containsWord(line, marker) {
					continue
				}
				fp := domain.Fingerprint(id, "marker", f.RelPath, domain.LocationKey(line, i+1, 0))
				out = append(out, domain.Finding{
					ID: fp[:16], Analyzer: id, Rule: "marker", Category: domain.CategoryCodeSmell,
					Priority: p, Effort: domain.EffortSmall, Title: marker + " found",
					File: f.RelPath, Line: i + 1, CodeSnippet: line, Recommendation: "Remove it.",
					Fingerprint: fp,
				})
			}
			return out, nil
		},
	}
}

func panicAnalyzer(id string) *stubAnalyzer {
	return &stubAnalyzer{id: id, category: domain.CategoryCodeSmell, analyze: func(domain.FileInfo, []byte) ([]domain.Finding, error) {
		panic("boom")
	}}
}

func errorAnalyzer(id string) *stubAnalyzer {
	return &stubAnalyzer{id: id, category: domain.CategoryCodeSmell, analyze: func(domain.FileInfo, []byte) ([]domain.Finding, error) {
		return nil, errors.New("malformed input")
	}}
}

func slowAnalyzer(id string, d time.Duration) *stubAnalyzer {
	return &stubAnalyzer{id: id, category: domain.CategoryCodeSmell, analyze: func(domain.FileInfo, []byte) ([]domain.Finding, error) {
		time.Sleep(d)
		return nil, nil
	}}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func containsWord(line, word string) bool {
	for i := 0; i+len(word) <= len(line); i++ {
		if line[i:i+len(word)] == word {
			return true
		}
	}
	return false
}

func kt(rel string) domain.FileInfo {
	return domain.FileInfo{Path: "/proj/" + rel, RelPath: rel}
}

// recordingWriter captures reports instead of writing files.
type recordingWriter struct {
	mu      sync.Mutex
	reports []*domain.Report
	err     error
}

func (w *recordingWriter) Write(_ context.Context, r *domain.Report) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	w.reports = append(w.reports, r)
	return []string{"/proj/.kodeguard/reports/report.txt"}, nil
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}
