package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the tree must stay quiet before a batch is emitted.
const DefaultDebounce = 300 * time.Millisecond

// Config holds configuration for the project watcher.
type Config struct {
	Root string
	// Keep decides which changed files, by slash-separated path relative to Root,
	// belong in a batch. Nil keeps everything.
	Keep func(rel string) bool
	// SkipDir reports directories, by name, that are never watched.
	SkipDir  func(name string) bool
	Debounce time.Duration
	// OnError receives fsnotify errors. Nil drops them.
	OnError func(error)
}

// Watcher watches a project tree and emits batches of changed files once the
// tree has been quiet for the debounce window.
type Watcher struct {
	cfg    Config
	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	closed bool
}

func New(cfg Config) (*Watcher, error) {
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", cfg.Root, err)
	}
	cfg.Root = abs
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Keep == nil {
		cfg.Keep = func(string) bool { return true }
	}
	if cfg.SkipDir == nil {
		cfg.SkipDir = func(string) bool { return false }
	}
	return &Watcher{cfg: cfg}, nil
}

// Start adds the tree to the underlying watcher and returns the batch channel.
// The channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) (<-chan []string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	if err := w.addRecursive(w.cfg.Root); err != nil {
		fsw.Close()
		return nil, err
	}

	out := make(chan []string, 4)
	go w.eventLoop(ctx, fsw, out)
	return out, nil
}

// Close shuts down the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.cfg.Root && w.cfg.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

func (w *Watcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- []string) {
	defer close(out)

	pending := make(map[string]bool)
	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Rename) && !ev.Op.Has(fsnotify.Remove) {
				continue
			}

			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !w.cfg.SkipDir(info.Name()) {
						_ = w.addRecursive(ev.Name)
					}
					continue
				}
			}

			rel, ok := w.relative(ev.Name)
			if !ok || !w.cfg.Keep(rel) {
				continue
			}
			pending[rel] = true
			timer.Reset(w.cfg.Debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			pending = make(map[string]bool)
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.cfg.OnError != nil {
				w.cfg.OnError(err)
			}
		}
	}
}

func (w *Watcher) relative(p string) (string, bool) {
	rel, err := filepath.Rel(w.cfg.Root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, seg := range strings.Split(rel, "/")[:strings.Count(rel, "/")] {
		if w.cfg.SkipDir(seg) {
			return "", false
		}
	}
	return rel, true
}
