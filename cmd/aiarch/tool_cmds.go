package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/ashwch/aiarch/internal/appdirs"
	"github.com/ashwch/aiarch/internal/config"
	"github.com/ashwch/aiarch/internal/hook"
	"github.com/ashwch/aiarch/internal/knowledge"
	"github.com/ashwch/aiarch/internal/provider"
	"github.com/ashwch/aiarch/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newMenuCmd() *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Edit routing targets and providers interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected, err := ui.ParseBackend(backend)
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			if f, ok := in.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
				selected = ui.BackendPlain
			}

			root, cfg, err := loadProject()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			edited, saved, err := ui.RunMenu(ui.NewPrompter(selected, in, out), cfg)
			if err != nil {
				return err
			}
			if !saved {
				fmt.Fprintln(out, "No changes saved.")
				return nil
			}
			if err := config.Save(root, edited); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintln(out, ui.RenderSummary(edited))
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "ui", ui.BackendAuto, "menu backend: "+strings.Join(ui.Backends(), "|"))
	return cmd
}

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth [provider]",
		Short: "Show how to authenticate provider CLIs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := knowledge.AuthKinds()
			if len(args) == 1 {
				_, cfg, err := loadProject()
				if err != nil {
					return err
				}
				kinds = []string{authKind(cfg, args[0])}
			}
			out := cmd.OutOrStdout()
			for idx, kind := range kinds {
				steps, err := knowledge.AuthInstructions(kind)
				if err != nil {
					return err
				}
				if idx > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s:\n", kind)
				for _, step := range steps {
					fmt.Fprintf(out, "- %s\n", step)
				}
			}
			return nil
		},
	}
}

// authKind maps a provider name to its kind; unknown names are treated as kinds.
func authKind(cfg config.Config, name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if desc, ok := cfg.Providers[name]; ok {
		if kind, ok := desc["kind"].(string); ok && kind != "" {
			return kind
		}
	}
	return name
}

type check struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Status string `json:"status"`
}

func newDoctorCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check settings, state dir and provider executables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, cfg, err := loadProject()
			if err != nil {
				return err
			}
			checks := doctorChecks(root, cfg)
			out := cmd.OutOrStdout()
			if asJSON {
				encoded, err := json.MarshalIndent(checks, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(encoded))
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, c := range checks {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Status, c.Key, c.Value)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func doctorChecks(root string, cfg config.Config) []check {
	settingsPath := appdirs.SettingsPath(root)
	checks := []check{
		{Key: "os", Value: runtime.GOOS, Status: "ok"},
		{Key: "project_root", Value: root, Status: statusPath(root)},
		{Key: "settings", Value: settingsPath, Status: statusPath(settingsPath)},
	}
	if stateDir, err := appdirs.StateDir(); err == nil {
		checks = append(checks, check{Key: "state_dir", Value: stateDir, Status: statusPath(stateDir)})
	}
	implicit := "off"
	if cfg.Implicit {
		implicit = "on"
	}
	checks = append(checks, check{Key: "implicit", Value: implicit, Status: "ok"})

	registry := provider.NewRegistry(cfg)
	for _, name := range registry.Names() {
		desc, err := registry.Lookup(name)
		if err != nil {
			checks = append(checks, check{Key: "provider." + name, Value: err.Error(), Status: "error"})
			continue
		}
		value := config.ProviderLine(name, cfg.Providers[name])
		status := "ok"
		if path, err := provider.HealthCheck(desc); err != nil {
			status = "missing"
			value += ": " + err.Error()
		} else {
			value += " at " + path
		}
		checks = append(checks, check{Key: "provider." + name, Value: value, Status: status})
	}
	return checks
}

func statusPath(path string) string {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "missing"
		}
		return "error"
	}
	return "ok"
}

func newHistoryCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent routing events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := appdirs.StateFilePath(hook.EventsFileName)
			if err != nil {
				return err
			}
			events, err := hook.NewJournal(path).Recent(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				encoded, err := json.MarshalIndent(events, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(encoded))
				return nil
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "No routing events recorded.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, ev := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", ev.Timestamp, ev.Entry, ev.Category, ev.Provider, ev.Outcome, ev.Status)
				if ev.Diagnostic != "" {
					fmt.Fprintf(w, "\t\t\t\t%s\t\n", firstLine(ev.Diagnostic))
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of events to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
