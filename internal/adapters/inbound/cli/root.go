// Package cli implements the kodeguard command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abdidvp/kodeguard/internal/engine"
	"github.com/abdidvp/kodeguard/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

// app carries the runtime overrides shared by every subcommand. Values come
// from persistent flags, falling back to KODEGUARD_* environment variables.
type app struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "kodeguard",
		Short: "Static analysis for Kotlin Android projects",
		Long: `kodeguard scans a Kotlin Android project for architecture, security,
performance, Compose and testing problems, compares each run with a stored
baseline and writes prioritised reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default: <project>/.kodeguard.yaml)")
	flags.BoolP("verbose", "v", false, "verbose logging on stderr")
	flags.Int("workers", 0, "files analyzed in parallel (default: number of CPUs)")
	flags.String("output-dir", "", "directory for baseline, history and reports, relative to the project")
	flags.String("store", "", "baseline store: file or badger")

	a.v.SetEnvPrefix("KODEGUARD")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	for _, name := range []string{"config", "verbose", "workers", "output-dir", "store"} {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", name, err))
		}
	}

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAnalyzeCmd(a))
	cmd.AddCommand(newIncrementalCmd(a))
	cmd.AddCommand(newFilterCmd(a))
	cmd.AddCommand(newBaselineCmd(a))
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newAnalyzersCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newMCPCmd(a))
	cmd.AddCommand(newInitCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func (a *app) logger() (*zap.SugaredLogger, error) {
	return logging.New(a.v.GetBool("verbose"))
}

func (a *app) options(log *zap.SugaredLogger) engine.Options {
	return engine.Options{
		ConfigFile: a.v.GetString("config"),
		Workers:    a.v.GetInt("workers"),
		OutputDir:  a.v.GetString("output-dir"),
		Store:      a.v.GetString("store"),
		Version:    version,
		Logger:     log,
	}
}

// open opens the project at path. The returned func closes the engine and
// flushes the logger.
func (a *app) open(path string) (*engine.Engine, func(), error) {
	log, err := a.logger()
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	e, err := engine.Open(path, a.options(log))
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return e, func() {
		if err := e.Close(); err != nil {
			log.Warnw("closing baseline store", "error", err)
		}
		_ = log.Sync()
	}, nil
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
