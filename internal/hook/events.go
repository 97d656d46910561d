package hook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ashwch/aiarch/internal/appdirs"
	"github.com/ashwch/aiarch/internal/safety"
)

const EventsFileName = "routing.jsonl"
const maxDiagnosticLength = 4096

// Payload is the JSON document a prompt-submit hook sends on stdin.
type Payload struct {
	Prompt        string `json:"prompt"`
	SessionID     string `json:"session_id,omitempty"`
	CWD           string `json:"cwd,omitempty"`
	HookEventName string `json:"hook_event_name,omitempty"`
}

func DecodePayload(r io.Reader) (Payload, error) {
	var payload Payload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return Payload{}, fmt.Errorf("could not decode hook payload: %w", err)
	}
	return payload, nil
}

// Event is one routing decision that reached a provider (or was meant to).
type Event struct {
	RunID      string `json:"run_id"`
	Timestamp  string `json:"timestamp"`
	Entry      string `json:"entry"`
	Category   string `json:"category"`
	Provider   string `json:"provider"`
	Mode       string `json:"mode"`
	Outcome    string `json:"outcome"`
	Status     int    `json:"status"`
	Diagnostic string `json:"diagnostic,omitempty"`
	Root       string `json:"root,omitempty"`
}

// Journal appends routing events to a JSONL file.
type Journal struct {
	path string
}

func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// DefaultJournal stores events in the per-user state directory.
func DefaultJournal() (*Journal, error) {
	if _, err := appdirs.EnsureStateDir(); err != nil {
		return nil, err
	}
	path, err := appdirs.StateFilePath(EventsFileName)
	if err != nil {
		return nil, err
	}
	return NewJournal(path), nil
}

func (j *Journal) Path() string {
	return j.path
}

func (j *Journal) Record(ev Event) error {
	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if strings.TrimSpace(ev.Provider) == "" {
		return fmt.Errorf("provider cannot be empty")
	}
	ev.Diagnostic = safety.Diagnostic(ev.Diagnostic, maxDiagnosticLength)

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("could not open events file: %w", err)
	}
	defer f.Close()
	if err := os.Chmod(j.path, 0o600); err != nil {
		return fmt.Errorf("could not secure events file permissions: %w", err)
	}

	encoded, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("could not serialize event: %w", err)
	}
	if _, err := f.WriteString(string(encoded) + "\n"); err != nil {
		return fmt.Errorf("could not write event: %w", err)
	}
	return nil
}

// Recent returns up to limit of the newest events, oldest first. Unparseable
// lines are skipped.
func (j *Journal) Recent(limit int) ([]Event, error) {
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read events file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	events := []Event{}
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		events = append(events, ev)
		if limit > 0 && len(events) > limit {
			events = events[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not scan events file: %w", err)
	}
	return events, nil
}
