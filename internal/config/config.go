package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ashwch/aiarch/internal/appdirs"
	"github.com/ashwch/aiarch/internal/classify"
)

// Key is the settings document key that holds the routing config.
const Key = "aiArchitect"

const (
	TargetBuiltin = "claude"
	TargetOff     = "off"
	DefaultTarget = "codex"
)

const (
	KindCodex   = "codex"
	KindGemini  = "gemini"
	KindCommand = "command"
)

var providerNamePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var (
	ErrReservedProvider = errors.New("reserved provider name")
	ErrInvalidTarget    = errors.New("invalid routing target")
)

// Config is the routing configuration. Provider descriptors are kept as raw
// JSON objects; the provider registry decodes them on lookup so unknown kinds
// and extra fields survive a save.
type Config struct {
	Implicit  bool                      `json:"implicit"`
	Targets   map[string]string         `json:"targets"`
	Providers map[string]map[string]any `json:"providers"`

	// Extra holds the other keys of the section (roles, for one) so Save
	// writes them back.
	Extra map[string]any `json:"-"`
}

func Default() Config {
	targets := map[string]string{}
	for _, category := range classify.All() {
		targets[string(category)] = DefaultTarget
	}
	return Config{
		Implicit:  true,
		Targets:   targets,
		Providers: defaultProviderCatalog(),
	}
}

func defaultProviderCatalog() map[string]map[string]any {
	return map[string]map[string]any{
		"codex": {
			"kind":  KindCodex,
			"model": "gpt-5.2-codex",
			"implicit": map[string]any{
				"sandbox":  "read-only",
				"approval": "never",
			},
			"explicit": map[string]any{
				"sandbox":  "workspace-write",
				"approval": "on-request",
			},
		},
		"gemini": {
			"kind":  KindGemini,
			"model": "gemini-1.5-pro",
			"implicit": map[string]any{
				"sandbox":      true,
				"approvalMode": "default",
			},
			"explicit": map[string]any{
				"sandbox":      false,
				"approvalMode": "auto_edit",
			},
		},
	}
}

// Load reads the routing config for root and merges it over the defaults.
// A missing or malformed settings document yields the defaults; a badly typed
// value only loses its own default.
func Load(root string) (Config, error) {
	settings, err := readSettings(appdirs.SettingsPath(root))
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	if section, ok := settings[Key].(map[string]any); ok {
		cfg.overlay(section)
	}
	return cfg, nil
}

// overlay applies a user section leaf by leaf. Values of the wrong type are
// skipped and the rest still apply.
func (c *Config) overlay(section map[string]any) {
	for key, value := range section {
		switch key {
		case "implicit":
			switch v := value.(type) {
			case bool:
				c.Implicit = v
			case nil:
				c.Implicit = false
			}
		case "targets":
			targets, _ := value.(map[string]any)
			for category, raw := range targets {
				if target, ok := raw.(string); ok {
					c.Targets[category] = target
				}
			}
		case "providers":
			providers, _ := value.(map[string]any)
			for name, raw := range providers {
				if desc, ok := raw.(map[string]any); ok {
					c.Providers[name] = DeepMerge(c.Providers[name], desc)
				}
			}
		default:
			if c.Extra == nil {
				c.Extra = map[string]any{}
			}
			c.Extra[key] = cloneValue(value)
		}
	}
}

// Save writes cfg under Key, leaving every other key of the settings
// document untouched.
func Save(root string, cfg Config) error {
	path := appdirs.SettingsPath(root)
	settings, err := readSettings(path)
	if err != nil {
		return err
	}
	typed, err := toDocument(cfg)
	if err != nil {
		return err
	}
	section := cloneMap(cfg.Extra)
	for key, value := range typed {
		section[key] = value
	}
	settings[Key] = section

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(settings); err != nil {
		return fmt.Errorf("could not serialize settings: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}

// DeepMerge overlays override onto base. Objects merge key-wise; every other
// value replaces the base value. Neither input is modified.
func DeepMerge(base, override map[string]any) map[string]any {
	merged := cloneMap(base)
	for key, value := range override {
		if overrideMap, ok := value.(map[string]any); ok {
			if baseMap, ok := merged[key].(map[string]any); ok {
				merged[key] = DeepMerge(baseMap, overrideMap)
				continue
			}
		}
		merged[key] = cloneValue(value)
	}
	return merged
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := Config{
		Implicit:  c.Implicit,
		Targets:   make(map[string]string, len(c.Targets)),
		Providers: make(map[string]map[string]any, len(c.Providers)),
	}
	for key, value := range c.Targets {
		out.Targets[key] = value
	}
	for key, value := range c.Providers {
		out.Providers[key] = cloneMap(value)
	}
	if c.Extra != nil {
		out.Extra = cloneMap(c.Extra)
	}
	return out
}

func (c *Config) SetTarget(category classify.Category, target string) error {
	target = strings.ToLower(strings.TrimSpace(target))
	if !IsSentinel(target) {
		if _, ok := c.Providers[target]; !ok {
			return fmt.Errorf("%w: %q is not a configured provider (available: %s)", ErrInvalidTarget, target, strings.Join(c.TargetChoices(), ", "))
		}
	}
	if c.Targets == nil {
		c.Targets = map[string]string{}
	}
	c.Targets[string(category)] = target
	return nil
}

func (c *Config) SetImplicit(enabled bool) {
	c.Implicit = enabled
}

// Target returns the provider routed for category, or DefaultTarget when the
// category has no entry.
func (c Config) Target(category classify.Category) string {
	if target := strings.TrimSpace(c.Targets[string(category)]); target != "" {
		return target
	}
	return DefaultTarget
}

func (c *Config) SetProvider(name string, descriptor map[string]any) error {
	name = strings.TrimSpace(name)
	if !providerNamePattern.MatchString(name) {
		return fmt.Errorf("invalid provider name %q (use lowercase letters, digits and dashes)", name)
	}
	if IsSentinel(name) {
		return fmt.Errorf("%w: %s is a routing sentinel", ErrReservedProvider, name)
	}
	kind, _ := descriptor["kind"].(string)
	if strings.TrimSpace(kind) == "" {
		return fmt.Errorf("provider %s requires a kind", name)
	}
	if c.Providers == nil {
		c.Providers = map[string]map[string]any{}
	}
	c.Providers[name] = cloneMap(descriptor)
	return nil
}

func (c *Config) RemoveProvider(name string) error {
	name = strings.TrimSpace(name)
	if IsReserved(name) {
		return fmt.Errorf("%w: %s cannot be removed", ErrReservedProvider, name)
	}
	if _, ok := c.Providers[name]; !ok {
		return fmt.Errorf("unknown provider: %s", name)
	}
	var users []string
	for _, category := range classify.All() {
		if c.Targets[string(category)] == name {
			users = append(users, string(category))
		}
	}
	if len(users) > 0 {
		return fmt.Errorf("provider %s is still targeted by %s; retarget first", name, strings.Join(users, ", "))
	}
	delete(c.Providers, name)
	return nil
}

func (c Config) ProviderNames() []string {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TargetChoices lists the values accepted by SetTarget.
func (c Config) TargetChoices() []string {
	return append([]string{TargetBuiltin, TargetOff}, c.ProviderNames()...)
}

func IsSentinel(target string) bool {
	return target == TargetBuiltin || target == TargetOff
}

// IsReserved reports names that ship with the defaults or act as sentinels.
func IsReserved(name string) bool {
	if IsSentinel(name) {
		return true
	}
	_, ok := defaultProviderCatalog()[name]
	return ok
}

func ParseSwitch(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid switch %q (expected on or off)", value)
	}
}

func readSettings(path string) (map[string]any, error) {
	payload, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read settings file: %w", err)
	}
	var settings map[string]any
	if err := json.Unmarshal(payload, &settings); err != nil || settings == nil {
		return map[string]any{}, nil
	}
	return settings, nil
}

func toDocument(cfg Config) (map[string]any, error) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not serialize config: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("could not serialize config: %w", err)
	}
	return doc, nil
}

func writeAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create settings dir: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("could not create temp settings file: %w", err)
	}
	tempPath := tempFile.Name()
	cleanup := func() {
		_ = os.Remove(tempPath)
	}

	if _, err := tempFile.Write(payload); err != nil {
		_ = tempFile.Close()
		cleanup()
		return fmt.Errorf("could not write temp settings file: %w", err)
	}
	if err := tempFile.Chmod(0o644); err != nil {
		_ = tempFile.Close()
		cleanup()
		return fmt.Errorf("could not set temp settings file permissions: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		cleanup()
		return fmt.Errorf("could not close temp settings file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		cleanup()
		return fmt.Errorf("could not atomically replace settings file: %w", err)
	}
	return nil
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
