package knowledge

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ashwch/aiarch/internal/classify"
)

//go:embed guidance.json
var guidanceJSON []byte

type guidance struct {
	Preamble   string              `json:"preamble"`
	Categories map[string]string   `json:"categories"`
	Auth       map[string][]string `json:"auth"`
}

func load() (guidance, error) {
	var g guidance
	if err := json.Unmarshal(guidanceJSON, &g); err != nil {
		return guidance{}, fmt.Errorf("embedded guidance is invalid: %w", err)
	}
	return g, nil
}

// BuildPrompt frames the user's request with category-specific guidance
// before it is handed to a provider.
func BuildPrompt(category classify.Category, userPrompt string) string {
	userPrompt = strings.TrimSpace(userPrompt)
	g, err := load()
	if err != nil {
		return userPrompt
	}

	parts := make([]string, 0, 3)
	if preamble := strings.TrimSpace(g.Preamble); preamble != "" {
		parts = append(parts, preamble)
	}
	if role := strings.TrimSpace(g.Categories[string(category)]); role != "" {
		parts = append(parts, role)
	}
	parts = append(parts, "REQUEST:\n"+userPrompt)
	return strings.Join(parts, "\n\n")
}

// AuthInstructions returns setup steps for a provider kind.
func AuthInstructions(kind string) ([]string, error) {
	g, err := load()
	if err != nil {
		return nil, err
	}
	steps, ok := g.Auth[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil, fmt.Errorf("no auth instructions for provider kind %q (known: %s)", kind, strings.Join(AuthKinds(), ", "))
	}
	return append([]string(nil), steps...), nil
}

func AuthKinds() []string {
	g, err := load()
	if err != nil {
		return nil
	}
	kinds := make([]string, 0, len(g.Auth))
	for kind := range g.Auth {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
