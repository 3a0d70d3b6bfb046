package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/scanner"
	"github.com/abdidvp/kodeguard/internal/adapters/outbound/watcher"
	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/abdidvp/kodeguard/internal/engine"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		flags    runFlags
		debounce time.Duration
		initial  bool
	)

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-analyze files as they change",
		Long: `Watch the project and run an incremental analysis over each batch of saved
files once the tree has been quiet for the debounce window. Stop with Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.ciMode = false

			e, done, err := a.open(pathArg(args))
			if err != nil {
				return err
			}
			defer done()

			ctx := cmd.Context()
			if initial {
				run, err := e.Orchestrator.AnalyzeAll(ctx)
				if err != nil {
					return fmt.Errorf("analysis failed: %w", err)
				}
				if err := flags.print(cmd, run, ""); err != nil {
					return err
				}
			}

			w, err := watcher.New(watcher.Config{
				Root:     e.Root,
				Keep:     keepSource(e),
				SkipDir:  scanner.SkipsDir,
				Debounce: debounce,
				OnError:  func(err error) { fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err) },
			})
			if err != nil {
				return err
			}
			defer w.Close()

			batches, err := w.Start(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", e.Root)
			return watchLoop(ctx, cmd, e, &flags, batches)
		},
	}

	flags.register(cmd)
	_ = cmd.Flags().MarkHidden("ci")
	_ = cmd.Flags().MarkHidden("fail-on")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "Quiet period before a batch is analyzed")
	cmd.Flags().BoolVar(&initial, "initial", false, "Run a full analysis before watching")
	return cmd
}

func watchLoop(ctx context.Context, cmd *cobra.Command, e *engine.Engine, flags *runFlags, batches <-chan []string) error {
	for batch := range batches {
		paths := existing(e.Root, batch)
		if len(paths) == 0 {
			continue
		}
		run, err := e.Orchestrator.AnalyzeIncremental(ctx, paths)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, domain.ErrInvalidPath) {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipping batch: %v\n", err)
				continue
			}
			return fmt.Errorf("analysis failed: %w", err)
		}
		if err := flags.print(cmd, run, ""); err != nil {
			return err
		}
	}
	return nil
}

// keepSource accepts the paths a scan of the project would analyze.
func keepSource(e *engine.Engine) func(rel string) bool {
	return func(rel string) bool {
		return len(e.Scanner.FilterFiles([]domain.FileInfo{{RelPath: rel}})) == 1
	}
}

// existing drops paths removed since the event was seen.
func existing(root string, rels []string) []string {
	out := make([]string, 0, len(rels))
	for _, rel := range rels {
		if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err == nil && info.Mode().IsRegular() {
			out = append(out, rel)
		}
	}
	return out
}
