package ui

import (
	"fmt"
	"strings"

	"github.com/ashwch/aiarch/internal/classify"
	"github.com/ashwch/aiarch/internal/config"
)

const (
	actionImplicit       = "implicit"
	actionAddProvider    = "add-provider"
	actionRemoveProvider = "remove-provider"
	actionSave           = "save"
	actionQuit           = "quit"
	actionTargetPrefix   = "target:"
)

// RunMenu edits a copy of cfg interactively. It returns the edited config and
// true only when the user chose to save; cfg itself is never modified.
func RunMenu(p Prompter, cfg config.Config) (config.Config, bool, error) {
	work := cfg.Clone()
	notice := ""
	for {
		title := "aiarch routing menu"
		if notice != "" {
			title = notice + "\n" + title
			notice = ""
		}
		action, err := p.Choose(title, menuOptions(work))
		if err != nil {
			return cfg, false, err
		}

		switch {
		case action == "" || action == actionQuit:
			return cfg, false, nil
		case strings.HasPrefix(action, actionTargetPrefix):
			category, err := classify.ParseCategory(strings.TrimPrefix(action, actionTargetPrefix))
			if err != nil {
				return cfg, false, err
			}
			target, err := p.Choose(fmt.Sprintf("%s target", category), targetOptions(work, category))
			if err != nil {
				return cfg, false, err
			}
			if target == "" {
				continue
			}
			if err := work.SetTarget(category, target); err != nil {
				notice = "error: " + err.Error()
			}
		case action == actionImplicit:
			work.SetImplicit(!work.Implicit)
		case action == actionAddProvider:
			if notice, err = addCommandProvider(p, &work); err != nil {
				return cfg, false, err
			}
		case action == actionRemoveProvider:
			if notice, err = removeProvider(p, &work); err != nil {
				return cfg, false, err
			}
		case action == actionSave:
			ok, err := p.Confirm("Save routing settings?", config.Summary(work))
			if err != nil {
				return cfg, false, err
			}
			if ok {
				return work, true, nil
			}
		}
	}
}

func menuOptions(cfg config.Config) []Option {
	options := make([]Option, 0, 8)
	for _, category := range classify.All() {
		options = append(options, Option{
			Label: fmt.Sprintf("%s target: %s", category, cfg.Target(category)),
			Value: actionTargetPrefix + string(category),
		})
	}
	implicit := "off"
	if cfg.Implicit {
		implicit = "on"
	}
	return append(options,
		Option{Label: "implicit routing: " + implicit, Value: actionImplicit},
		Option{Label: "add command provider", Value: actionAddProvider},
		Option{Label: "remove provider", Value: actionRemoveProvider},
		Option{Label: "save and exit", Value: actionSave},
		Option{Label: "exit without saving", Value: actionQuit},
	)
}

func targetOptions(cfg config.Config, category classify.Category) []Option {
	current := cfg.Target(category)
	choices := cfg.TargetChoices()
	options := make([]Option, 0, len(choices))
	for _, choice := range choices {
		label := choice
		if descriptor, ok := cfg.Providers[choice]; ok {
			label = config.ProviderLine(choice, descriptor)
		}
		if choice == current {
			label += " (current)"
		}
		options = append(options, Option{Label: label, Value: choice})
	}
	return options
}

func addCommandProvider(p Prompter, cfg *config.Config) (string, error) {
	name, err := p.Input("Provider name", "my-tool")
	if err != nil || name == "" {
		return "", err
	}
	command, err := p.Input("Command", "my-tool --prompt {prompt}")
	if err != nil || command == "" {
		return "", err
	}
	if err := cfg.SetProvider(name, map[string]any{"kind": config.KindCommand, "command": command}); err != nil {
		return "error: " + err.Error(), nil
	}
	return "added provider " + name, nil
}

func removeProvider(p Prompter, cfg *config.Config) (string, error) {
	options := []Option{}
	for _, name := range cfg.ProviderNames() {
		if config.IsReserved(name) {
			continue
		}
		options = append(options, Option{Label: config.ProviderLine(name, cfg.Providers[name]), Value: name})
	}
	if len(options) == 0 {
		return "no removable providers", nil
	}
	name, err := p.Choose("Remove which provider?", options)
	if err != nil || name == "" {
		return "", err
	}
	if err := cfg.RemoveProvider(name); err != nil {
		return "error: " + err.Error(), nil
	}
	return "removed provider " + name, nil
}
