package baseline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abdidvp/kodeguard/internal/domain"
)

const (
	baselineFile = "baseline.json"
	historyFile  = "history.jsonl"
)

// FileStore is a JSON file implementation of domain.BaselineStore. The baseline
// is replaced atomically; history is a JSON Lines file that is only appended to.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// LoadBaseline returns (nil, nil) if no baseline has been saved yet.
func (s *FileStore) LoadBaseline(ctx context.Context) (*domain.Baseline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, baselineFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading baseline: %w: %w", domain.ErrBaselineStore, err)
	}

	var b domain.Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding baseline: %w: %w", domain.ErrBaselineStore, err)
	}
	return &b, nil
}

// SaveBaseline writes through a temporary file so readers never see a partial baseline.
func (s *FileStore) SaveBaseline(ctx context.Context, b domain.Baseline) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w: %w", s.dir, domain.ErrBaselineStore, err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding baseline: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, baselineFile+".*")
	if err != nil {
		return fmt.Errorf("writing baseline: %w: %w", domain.ErrBaselineStore, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing baseline: %w: %w", domain.ErrBaselineStore, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing baseline: %w: %w", domain.ErrBaselineStore, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, baselineFile)); err != nil {
		return fmt.Errorf("replacing baseline: %w: %w", domain.ErrBaselineStore, err)
	}
	return nil
}

func (s *FileStore) AppendHistory(ctx context.Context, entry domain.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w: %w", s.dir, domain.ErrBaselineStore, err)
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding history entry: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(s.dir, historyFile), os.O_CREATE|os.O_APPEND|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("opening history: %w: %w", domain.ErrBaselineStore, err)
	}
	defer f.Close()

	if err := dropTornTail(f); err != nil {
		return fmt.Errorf("repairing history: %w: %w", domain.ErrBaselineStore, err)
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending history: %w: %w", domain.ErrBaselineStore, err)
	}
	return nil
}

// dropTornTail truncates an unterminated final line so the next append starts on a
// fresh line instead of completing the fragment.
func dropTornTail(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, size-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		return nil
	}

	const chunk = 4096
	for end := size; end > 0; {
		start := max(0, end-chunk)
		buf := make([]byte, end-start)
		if _, err := f.ReadAt(buf, start); err != nil {
			return err
		}
		if i := bytes.LastIndexByte(buf, '\n'); i >= 0 {
			return f.Truncate(start + int64(i) + 1)
		}
		end = start
	}
	return f.Truncate(0)
}

// LoadHistory returns entries oldest first. A torn final line, left by a crash
// during an append, is ignored.
func (s *FileStore) LoadHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, historyFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history: %w: %w", domain.ErrBaselineStore, err)
	}
	defer f.Close()

	var entries []domain.HistoryEntry
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		complete := err == nil
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading history: %w: %w", domain.ErrBaselineStore, err)
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			var e domain.HistoryEntry
			if jerr := json.Unmarshal(line, &e); jerr != nil {
				if !complete {
					break
				}
				return nil, fmt.Errorf("decoding history entry %d: %w: %w", len(entries)+1, domain.ErrBaselineStore, jerr)
			}
			entries = append(entries, e)
		}
		if !complete {
			break
		}
	}
	return entries, nil
}

func (s *FileStore) Close() error { return nil }
