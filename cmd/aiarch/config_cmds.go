package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ashwch/aiarch/internal/appdirs"
	"github.com/ashwch/aiarch/internal/classify"
	"github.com/ashwch/aiarch/internal/config"
	"github.com/ashwch/aiarch/internal/ui"
	"github.com/spf13/cobra"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Write the routing defaults into the project settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, cfg, err := loadProject()
			if err != nil {
				return err
			}
			if err := config.Save(root, cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized settings at %s\n", appdirs.SettingsPath(root))
			fmt.Fprintln(out, config.Summary(cfg))
			return nil
		},
	}
}

func newSummaryCmd() *cobra.Command {
	var styled bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the current routing configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cfg, err := loadProject()
			if err != nil {
				return err
			}
			if styled {
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSummary(cfg))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Summary(cfg))
			return nil
		},
	}
	cmd.Flags().BoolVar(&styled, "styled", false, "render the summary as a terminal card")
	return cmd
}

func newSetTargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-target <category> <target>",
		Short: "Route a category to a provider, claude or off",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := classify.ParseCategory(args[0])
			if err != nil {
				return err
			}
			root, cfg, err := loadProject()
			if err != nil {
				return err
			}
			if err := cfg.SetTarget(category, args[1]); err != nil {
				return err
			}
			return saveAndSummarize(cmd, root, cfg)
		},
	}
}

func newSetImplicitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-implicit <on|off>",
		Short: "Enable or disable routing of free-text prompts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := config.ParseSwitch(args[0])
			if err != nil {
				return err
			}
			root, cfg, err := loadProject()
			if err != nil {
				return err
			}
			cfg.SetImplicit(enabled)
			return saveAndSummarize(cmd, root, cfg)
		},
	}
}

type providerFlags struct {
	kind    string
	command string
	args    []string
	binary  string
	model   string
}

func (f providerFlags) descriptor() (map[string]any, error) {
	if f.command != "" && len(f.args) > 0 {
		return nil, errors.New("use either --command or --arg, not both")
	}
	desc := map[string]any{}
	if kind := strings.ToLower(strings.TrimSpace(f.kind)); kind != "" {
		desc["kind"] = kind
	}
	if f.command != "" {
		desc["command"] = f.command
	}
	if len(f.args) > 0 {
		argv := make([]any, 0, len(f.args))
		for _, arg := range f.args {
			argv = append(argv, arg)
		}
		desc["command"] = argv
	}
	if f.binary != "" {
		desc["binary"] = f.binary
	}
	if f.model != "" {
		desc["model"] = f.model
	}
	return desc, nil
}

func newSetProviderCmd() *cobra.Command {
	flags := providerFlags{}
	cmd := &cobra.Command{
		Use:   "set-provider <name>",
		Short: "Add a provider or update fields of an existing one",
		Long: "Add a provider or update fields of an existing one.\n\n" +
			"Fields given on the command line are merged over the stored descriptor, so\n" +
			"`set-provider codex --model gpt-5` keeps the codex sandbox settings.\n" +
			"Command strings run through sh and may contain {prompt}; otherwise the\n" +
			"quoted prompt is appended. Repeated --arg values form an argument list.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := flags.descriptor()
			if err != nil {
				return err
			}
			root, cfg, err := loadProject()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			merged := config.DeepMerge(cfg.Providers[name], update)
			if err := cfg.SetProvider(name, merged); err != nil {
				return err
			}
			return saveAndSummarize(cmd, root, cfg)
		},
	}
	cmd.Flags().StringVar(&flags.kind, "kind", "", "provider kind: codex|gemini|command (required for new providers)")
	cmd.Flags().StringVar(&flags.command, "command", "", "shell command for command providers")
	cmd.Flags().StringArrayVar(&flags.args, "arg", nil, "argument list element for command providers (repeatable)")
	cmd.Flags().StringVar(&flags.binary, "binary", "", "path to the provider executable")
	cmd.Flags().StringVar(&flags.model, "model", "", "model id passed to the provider")
	return cmd
}

func newRemoveProviderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-provider <name>",
		Short: "Delete a custom provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := loadProject()
			if err != nil {
				return err
			}
			if err := cfg.RemoveProvider(args[0]); err != nil {
				return err
			}
			return saveAndSummarize(cmd, root, cfg)
		},
	}
}

func newExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the routing configuration as json, toml or yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cfg, err := loadProject()
			if err != nil {
				return err
			}
			payload, err := config.Export(cfg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(payload)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", config.FormatJSON, "output format: json|toml|yaml")
	return cmd
}
