package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start(t *testing.T, cfg watcher.Config) <-chan []string {
	t.Helper()
	w, err := watcher.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	batches, err := w.Start(ctx)
	require.NoError(t, err)
	return batches
}

func nextBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()
	select {
	case b, ok := <-batches:
		require.True(t, ok, "batch channel closed")
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a batch")
		return nil
	}
}

func TestWatcher_BatchesChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app"), 0o755))

	batches := start(t, watcher.Config{
		Root:     root,
		Keep:     func(rel string) bool { return strings.HasSuffix(rel, ".kt") },
		Debounce: 50 * time.Millisecond,
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "app", "Home.kt"), []byte("class Home"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app", "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Main.kt"), []byte("fun main() {}"), 0o644))

	got := map[string]bool{}
	for len(got) < 2 {
		for _, p := range nextBatch(t, batches) {
			got[p] = true
		}
	}
	assert.Equal(t, map[string]bool{"app/Home.kt": true, "Main.kt": true}, got)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	batches := start(t, watcher.Config{Root: root, Debounce: 50 * time.Millisecond})

	dir := filepath.Join(root, "feature")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	// Give the loop a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Feature.kt"), []byte("class Feature"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case b := <-batches:
			for _, p := range b {
				if p == "feature/Feature.kt" {
					return
				}
			}
		case <-deadline:
			t.Fatal("change in a new directory was never reported")
		}
	}
}

func TestWatcher_SkipsDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	batches := start(t, watcher.Config{
		Root:     root,
		SkipDir:  func(name string) bool { return name == "build" },
		Debounce: 50 * time.Millisecond,
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "build", "Gen.kt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "Real.kt"), []byte("y"), 0o644))

	assert.Equal(t, []string{"src/Real.kt"}, nextBatch(t, batches))
}

func TestWatcher_ClosesOnCancel(t *testing.T) {
	w, err := watcher.New(watcher.Config{Root: t.TempDir()})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	batches, err := w.Start(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-batches:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
