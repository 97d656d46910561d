package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashwch/aiarch/internal/classify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// ProviderLine describes one provider for summaries and menus.
func ProviderLine(name string, descriptor map[string]any) string {
	kind, _ := descriptor["kind"].(string)
	if kind == "" {
		kind = "custom"
	}
	extra := []string{}
	if model, ok := descriptor["model"].(string); ok && model != "" {
		extra = append(extra, "model="+model)
	}
	if command, ok := descriptor["command"]; ok && command != nil {
		extra = append(extra, "command="+commandText(command))
	}
	details := ""
	if len(extra) > 0 {
		details = " (" + strings.Join(extra, ", ") + ")"
	}
	return fmt.Sprintf("%s (%s)%s", name, kind, details)
}

func Summary(cfg Config) string {
	implicit := "off"
	if cfg.Implicit {
		implicit = "on"
	}
	lines := []string{"Implicit routing: " + implicit, "Targets:"}
	for _, category := range classify.All() {
		lines = append(lines, fmt.Sprintf("- %s: %s", category, cfg.Target(category)))
	}
	lines = append(lines, "Providers:")
	for _, name := range cfg.ProviderNames() {
		lines = append(lines, "- "+ProviderLine(name, cfg.Providers[name]))
	}
	return strings.Join(lines, "\n")
}

// Export renders cfg in one of the supported formats. Only JSON is ever
// persisted; the other formats are for inspection.
func Export(cfg Config, format string) ([]byte, error) {
	doc, err := toDocument(cfg)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			return nil, fmt.Errorf("could not render json: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		out, err := toml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("could not render toml: %w", err)
		}
		return out, nil
	case FormatYAML:
		out, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("could not render yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (expected json, toml or yaml)", format)
	}
}

func commandText(command any) string {
	switch v := command.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
