package knowledge

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ashwch/aiarch/internal/classify"
)

func TestGuidanceIsValidJSON(t *testing.T) {
	var payload map[string]any
	if err := json.Unmarshal(guidanceJSON, &payload); err != nil {
		t.Fatalf("guidance must be valid JSON: %v", err)
	}
}

func TestEveryCategoryHasGuidance(t *testing.T) {
	g, err := load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	for _, category := range classify.All() {
		if strings.TrimSpace(g.Categories[string(category)]) == "" {
			t.Fatalf("missing guidance for %q", category)
		}
	}
}

func TestBuildPromptEmbedsRoleAndRequest(t *testing.T) {
	got := BuildPrompt(classify.Review, "  check the auth middleware  ")
	if !strings.Contains(got, "Role: review.") {
		t.Fatalf("expected review role, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "REQUEST:\ncheck the auth middleware") {
		t.Fatalf("expected trimmed request at the end, got:\n%s", got)
	}
}

func TestAuthInstructions(t *testing.T) {
	for _, kind := range []string{"codex", "gemini", "command"} {
		steps, err := AuthInstructions(kind)
		if err != nil {
			t.Fatalf("AuthInstructions(%q) failed: %v", kind, err)
		}
		if len(steps) == 0 {
			t.Fatalf("AuthInstructions(%q) returned no steps", kind)
		}
	}
	if _, err := AuthInstructions("claude"); err == nil {
		t.Fatalf("expected unknown kind to fail")
	}
}
