package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ashwch/aiarch/internal/classify"
	"github.com/ashwch/aiarch/internal/hook"
	"github.com/ashwch/aiarch/internal/provider"
	"github.com/ashwch/aiarch/internal/router"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type execFlags struct {
	category string
	mode     string
	provider string
	prompt   string
}

func newExecCmd(opts *options) *cobra.Command {
	flags := execFlags{}
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Send a request to the provider routed for a category",
		Long: "Send a request to the provider routed for a category.\n\n" +
			"The prompt comes from --prompt, else from piped stdin, else a generic\n" +
			"request for guidance on the current project. Provider failures print a\n" +
			"fallback notice and still exit 0.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			category, err := classify.ParseCategory(flags.category)
			if err != nil {
				return err
			}
			mode, err := provider.ParseMode(flags.mode)
			if err != nil {
				return err
			}
			logger, err := newLogger(opts)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck // best-effort

			prompt := flags.prompt
			if strings.TrimSpace(prompt) == "" {
				if prompt, err = readPipedPrompt(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			root, cfg, err := loadProject()
			if err != nil {
				return err
			}
			r := router.New(cfg, root, routerOptions(logger)...)
			d := r.Explicit(cmd.Context(), router.ExplicitRequest{
				Category: category,
				Provider: flags.provider,
				Prompt:   prompt,
				Mode:     mode,
			})
			if text := router.Render(d); text != "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.category, "category", "", "request category: planning|architecture|review")
	cmd.Flags().StringVar(&flags.mode, "mode", string(provider.ModeExplicit), "parameter bundle: implicit|explicit")
	cmd.Flags().StringVar(&flags.provider, "provider", "", "provider to use instead of the configured target")
	cmd.Flags().StringVar(&flags.prompt, "prompt", "", "request text (default: read from stdin)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// readPipedPrompt reads stdin unless it is an interactive terminal.
func readPipedPrompt(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", nil
	}
	payload, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read prompt from stdin: %w", err)
	}
	return strings.TrimSpace(string(payload)), nil
}

func newRouteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "route",
		Short: "Prompt-submit hook: classify stdin JSON and route it",
		Long: "Prompt-submit hook: classify stdin JSON and route it.\n\n" +
			"Reads {\"prompt\": ...} from stdin. Prints nothing unless a provider was\n" +
			"invoked. Never fails, so the host assistant is never blocked. Logs go\n" +
			"to aiarch.log in the state directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newFileLogger(opts)
			defer logger.Sync() //nolint:errcheck // best-effort

			payload, err := hook.DecodePayload(cmd.InOrStdin())
			if err != nil {
				logger.Debug("ignoring hook input", zap.Error(err))
				return nil
			}
			root, cfg, err := loadProject()
			if err != nil {
				logger.Warn("could not load project", zap.Error(err))
				return nil
			}
			d := router.New(cfg, root, routerOptions(logger)...).Implicit(cmd.Context(), payload.Prompt)
			if text := router.Render(d); text != "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}
}

// routerOptions wires logging and, when the state dir is usable, the journal.
func routerOptions(logger *zap.Logger) []router.Option {
	opts := []router.Option{router.WithLogger(logger)}
	journal, err := hook.DefaultJournal()
	if err != nil {
		logger.Debug("routing journal unavailable", zap.Error(err))
		return opts
	}
	return append(opts, router.WithRecorder(journal))
}
