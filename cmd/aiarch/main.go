package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashwch/aiarch/internal/appdirs"
	"github.com/ashwch/aiarch/internal/config"
	"github.com/ashwch/aiarch/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

const logFileName = "aiarch.log"

type options struct {
	LogLevel  string
	LogFormat string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "aiarch: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "aiarch",
		Short:         "Route planning, architecture and review requests to external AI CLIs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "console", "log format: console|json")

	cmd.AddCommand(
		newSetupCmd(),
		newSummaryCmd(),
		newSetTargetCmd(),
		newSetImplicitCmd(),
		newSetProviderCmd(),
		newRemoveProviderCmd(),
		newExportCmd(),
		newMenuCmd(),
		newExecCmd(opts),
		newRouteCmd(opts),
		newAuthCmd(),
		newDoctorCmd(),
		newHistoryCmd(),
	)
	return cmd
}

// loadProject resolves the project root and its routing config.
func loadProject() (string, config.Config, error) {
	root, err := appdirs.ProjectRoot()
	if err != nil {
		return "", config.Config{}, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return root, cfg, nil
}

// saveAndSummarize persists cfg and prints the plain summary.
func saveAndSummarize(cmd *cobra.Command, root string, cfg config.Config) error {
	if err := config.Save(root, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), config.Summary(cfg))
	return nil
}

func newLogger(opts *options) (*zap.Logger, error) {
	return logging.NewLogger(opts.LogLevel, opts.LogFormat)
}

// newFileLogger logs to the state dir so stdout and stderr stay clean for the
// hook host. Any failure yields a no-op logger.
func newFileLogger(opts *options) *zap.Logger {
	if _, err := appdirs.EnsureStateDir(); err != nil {
		return zap.NewNop()
	}
	path, err := appdirs.StateFilePath(logFileName)
	if err != nil {
		return zap.NewNop()
	}
	logger, err := logging.NewLogger(opts.LogLevel, "json", path)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
