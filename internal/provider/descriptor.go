package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashwch/aiarch/internal/config"
)

// Mode selects which parameter bundle a managed CLI runs with. Implicit runs
// happen without the user watching, so their defaults are read-only.
type Mode string

const (
	ModeImplicit Mode = "implicit"
	ModeExplicit Mode = "explicit"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeImplicit:
		return ModeImplicit, nil
	case ModeExplicit, "":
		return ModeExplicit, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected implicit or explicit)", raw)
	}
}

// Descriptor is a decoded provider entry. The set of implementations is
// closed: CodexDescriptor, GeminiDescriptor and CommandDescriptor.
type Descriptor interface {
	Kind() string
	descriptor()
}

type CodexParams struct {
	Sandbox  string `json:"sandbox"`
	Approval string `json:"approval"`
}

type CodexDescriptor struct {
	Binary   string      `json:"binary,omitempty"`
	Model    string      `json:"model,omitempty"`
	Implicit CodexParams `json:"implicit"`
	Explicit CodexParams `json:"explicit"`
}

func (CodexDescriptor) Kind() string { return config.KindCodex }
func (CodexDescriptor) descriptor()  {}

// Params returns the bundle for mode with unset fields defaulted.
func (d CodexDescriptor) Params(mode Mode) CodexParams {
	if mode == ModeImplicit {
		return d.Implicit.withDefaults("read-only", "never")
	}
	return d.Explicit.withDefaults("workspace-write", "on-request")
}

func (p CodexParams) withDefaults(sandbox, approval string) CodexParams {
	if strings.TrimSpace(p.Sandbox) == "" {
		p.Sandbox = sandbox
	}
	if strings.TrimSpace(p.Approval) == "" {
		p.Approval = approval
	}
	return p
}

type GeminiParams struct {
	Sandbox      *bool  `json:"sandbox,omitempty"`
	ApprovalMode string `json:"approvalMode"`
}

type GeminiDescriptor struct {
	Binary   string       `json:"binary,omitempty"`
	Model    string       `json:"model,omitempty"`
	Implicit GeminiParams `json:"implicit"`
	Explicit GeminiParams `json:"explicit"`
}

func (GeminiDescriptor) Kind() string { return config.KindGemini }
func (GeminiDescriptor) descriptor()  {}

func (d GeminiDescriptor) Params(mode Mode) GeminiParams {
	if mode == ModeImplicit {
		return d.Implicit.withDefaults(true, "default")
	}
	return d.Explicit.withDefaults(false, "auto_edit")
}

func (p GeminiParams) withDefaults(sandbox bool, approvalMode string) GeminiParams {
	if p.Sandbox == nil {
		p.Sandbox = &sandbox
	}
	if strings.TrimSpace(p.ApprovalMode) == "" {
		p.ApprovalMode = approvalMode
	}
	return p
}

// CommandDescriptor runs an arbitrary command. Exactly one of Shell and Argv
// is set.
type CommandDescriptor struct {
	Shell string
	Argv  []string
}

func (CommandDescriptor) Kind() string { return config.KindCommand }
func (CommandDescriptor) descriptor()  {}

// UsesShell reports whether the command is a single string run through a shell.
func (d CommandDescriptor) UsesShell() bool {
	return len(d.Argv) == 0
}

func decodeDescriptor(name string, raw map[string]any) (Descriptor, error) {
	kind, _ := raw["kind"].(string)
	switch kind {
	case config.KindCodex:
		var d CodexDescriptor
		if err := decodeInto(raw, &d); err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		return d, nil
	case config.KindGemini:
		var d GeminiDescriptor
		if err := decodeInto(raw, &d); err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		return d, nil
	case config.KindCommand:
		return decodeCommand(name, raw["command"])
	default:
		return nil, fmt.Errorf("%w: provider %s has kind %q", ErrUnknownProviderKind, name, kind)
	}
}

func decodeInto(raw map[string]any, target any) error {
	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("could not encode descriptor: %w", err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}
	return nil
}

func decodeCommand(name string, raw any) (Descriptor, error) {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: provider %s", ErrMissingCommand, name)
		}
		return CommandDescriptor{Shell: v}, nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: provider %s has an empty command list", ErrMissingCommand, name)
		}
		argv := make([]string, 0, len(v))
		for idx, item := range v {
			arg, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("provider %s: command element %d is %T, expected string", name, idx, item)
			}
			argv = append(argv, arg)
		}
		if strings.TrimSpace(argv[0]) == "" {
			return nil, fmt.Errorf("%w: provider %s has an empty program name", ErrMissingCommand, name)
		}
		return CommandDescriptor{Argv: argv}, nil
	case nil:
		return nil, fmt.Errorf("%w: provider %s", ErrMissingCommand, name)
	default:
		return nil, fmt.Errorf("provider %s: command is %T, expected string or list", name, raw)
	}
}
