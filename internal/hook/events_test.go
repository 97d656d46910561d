package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ashwch/aiarch/internal/appdirs"
)

func TestDecodePayload(t *testing.T) {
	payload, err := DecodePayload(strings.NewReader(`{"prompt":"review this","session_id":"abc","hook_event_name":"UserPromptSubmit","extra":1}`))
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if payload.Prompt != "review this" || payload.SessionID != "abc" {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	if _, err := DecodePayload(strings.NewReader("not json")); err == nil {
		t.Fatalf("expected malformed payload to fail")
	}
}

func TestDecodePayloadMissingPrompt(t *testing.T) {
	payload, err := DecodePayload(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("DecodePayload failed: %v", err)
	}
	if payload.Prompt != "" {
		t.Fatalf("expected empty prompt, got %q", payload.Prompt)
	}
}

func TestDefaultJournalSecuresEventsFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not portable on windows")
	}

	home := t.TempDir()
	stateBase := filepath.Join(home, ".local", "state")
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", stateBase)

	journal, err := DefaultJournal()
	if err != nil {
		t.Fatalf("DefaultJournal failed: %v", err)
	}
	if err := journal.Record(Event{Provider: "codex", Outcome: "output"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	path, err := appdirs.StateFilePath(EventsFileName)
	if err != nil {
		t.Fatalf("StateFilePath failed: %v", err)
	}
	if journal.Path() != path {
		t.Fatalf("expected journal at %q, got %q", path, journal.Path())
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat events file failed: %v", err)
	}
	if perms := info.Mode().Perm(); perms&0o077 != 0 {
		t.Fatalf("expected private events file permissions, got %o", perms)
	}
}

func TestRecordRedactsDiagnostics(t *testing.T) {
	journal := NewJournal(filepath.Join(t.TempDir(), "events.jsonl"))
	err := journal.Record(Event{
		Provider:   "codex",
		Outcome:    "failed",
		Status:     1,
		Diagnostic: "401 Unauthorized: OPENAI_API_KEY=sk-live-123456",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	events, err := journal.Recent(0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if strings.Contains(events[0].Diagnostic, "sk-live-123456") {
		t.Fatalf("expected diagnostic to be redacted, got %q", events[0].Diagnostic)
	}
	if events[0].Timestamp == "" {
		t.Fatalf("expected timestamp to be filled")
	}
}

func TestRecordRequiresProvider(t *testing.T) {
	journal := NewJournal(filepath.Join(t.TempDir(), "events.jsonl"))
	if err := journal.Record(Event{Outcome: "output"}); err == nil {
		t.Fatalf("expected missing provider to fail")
	}
}

func TestRecentKeepsNewestAndSkipsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	journal := NewJournal(path)
	for i := 0; i < 5; i++ {
		if err := journal.Record(Event{Provider: fmt.Sprintf("p%d", i)}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	_, _ = f.WriteString("{broken\n")
	_ = f.Close()

	events, err := journal.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(events) != 2 || events[0].Provider != "p3" || events[1].Provider != "p4" {
		t.Fatalf("unexpected recent events: %+v", events)
	}
}

func TestRecentMissingFile(t *testing.T) {
	events, err := NewJournal(filepath.Join(t.TempDir(), "absent.jsonl")).Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
