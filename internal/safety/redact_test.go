package safety

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRedactTextRedactsAssignments(t *testing.T) {
	input := "OPENAI_API_KEY=abc123 token: xyz password='hunter2'"
	got := RedactText(input)

	for _, secret := range []string{"abc123", "xyz", "hunter2"} {
		if strings.Contains(got, secret) {
			t.Fatalf("expected %q to be redacted, got %q", secret, got)
		}
	}
	if !strings.Contains(got, "OPENAI_API_KEY=<redacted>") {
		t.Fatalf("expected api key assignment to be redacted, got %q", got)
	}
}

func TestRedactTextRedactsBearerToken(t *testing.T) {
	got := RedactText("Authorization: Bearer verysecrettoken")
	if strings.Contains(got, "verysecrettoken") {
		t.Fatalf("expected bearer token to be redacted, got %q", got)
	}
	if !strings.Contains(strings.ToLower(got), "authorization: bearer <redacted>") {
		t.Fatalf("expected normalized bearer redaction, got %q", got)
	}
}

func TestRedactTextRedactsProviderKeys(t *testing.T) {
	input := "401 invalid key sk-proj-abcdefghijklmnopqrstuvwx and AIzaSyA1234567890abcdefghijklmnopqrstu"
	got := RedactText(input)
	if strings.Contains(got, "sk-proj-abcdef") || strings.Contains(got, "AIzaSyA123") {
		t.Fatalf("expected provider keys to be redacted, got %q", got)
	}
}

func TestRedactTextRedactsFlags(t *testing.T) {
	got := RedactText("codex --api-key abc123 exec")
	if strings.Contains(got, "abc123") {
		t.Fatalf("expected flag value to be redacted, got %q", got)
	}
}

func TestRedactTextLeavesRegularDiagnostics(t *testing.T) {
	input := "error: model gpt-5 is not available for this account"
	if got := RedactText(input); got != input {
		t.Fatalf("expected non-secret text unchanged, got %q", got)
	}
}

func TestDiagnosticTruncates(t *testing.T) {
	got := Diagnostic("  "+strings.Repeat("a", 20)+"  ", 10)
	if got != strings.Repeat("a", 10)+"..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := Diagnostic(" short ", 0); got != "short" {
		t.Fatalf("expected uncapped trimmed text, got %q", got)
	}
}

func TestDiagnosticTruncatesOnRuneBoundary(t *testing.T) {
	got := Diagnostic("a"+strings.Repeat("é", 10), 4)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if got != "aé..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
