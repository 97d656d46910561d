package ui

import (
	"fmt"
	"strings"
)

const (
	BackendAuto      = "auto"
	BackendBubbleTea = "bubbletea"
	BackendHuh       = "huh"
	BackendTView     = "tview"
	BackendPlain     = "plain"
)

// Backends lists accepted --ui values.
func Backends() []string {
	return []string{BackendAuto, BackendBubbleTea, BackendHuh, BackendTView, BackendPlain}
}

func NormalizeBackend(backend string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendBubbleTea:
		return BackendBubbleTea
	case BackendHuh:
		return BackendHuh
	case BackendTView:
		return BackendTView
	case BackendPlain:
		return BackendPlain
	default:
		return BackendAuto
	}
}

// ParseBackend is the strict form of NormalizeBackend used for flag values.
func ParseBackend(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return BackendAuto, nil
	}
	for _, backend := range Backends() {
		if value == backend {
			return backend, nil
		}
	}
	return "", fmt.Errorf("unknown ui backend %q (expected one of %s)", raw, strings.Join(Backends(), ", "))
}

func IsInteractiveBackend(backend string) bool {
	return NormalizeBackend(backend) != BackendPlain
}

// backendCandidates orders the terminal backends tried for a preference. huh
// leads under auto since its forms degrade best on small terminals.
func backendCandidates(backend string) []string {
	switch NormalizeBackend(backend) {
	case BackendBubbleTea:
		return []string{BackendBubbleTea, BackendHuh, BackendTView}
	case BackendHuh:
		return []string{BackendHuh, BackendBubbleTea, BackendTView}
	case BackendTView:
		return []string{BackendTView, BackendHuh, BackendBubbleTea}
	case BackendPlain:
		return []string{BackendPlain}
	default:
		return []string{BackendHuh, BackendBubbleTea, BackendTView}
	}
}
