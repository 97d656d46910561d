package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode"
)

// exitCommandNotRunnable mirrors the shell's status for a missing program.
const exitCommandNotRunnable = 127

func runProcess(ctx context.Context, dir string, inv invocation) Result {
	cmd := exec.CommandContext(ctx, inv.name, inv.args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	out := strings.TrimRightFunc(stdout.String(), isSpace)
	errText := strings.TrimRightFunc(stderr.String(), isSpace)
	if errText == "" {
		errText = out
	}

	result := Result{Output: out, Error: errText}
	if runErr == nil {
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		result.Status = exitErr.ExitCode()
		if result.Status <= 0 {
			// Killed by a signal.
			result.Status = 1
		}
		return result
	}

	result.Status = exitCommandNotRunnable
	result.Error = fmt.Sprintf("could not start %s: %v", inv.name, runErr)
	return result
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// HealthCheck resolves the program behind a descriptor on PATH and returns
// its location.
func HealthCheck(desc Descriptor) (string, error) {
	var program string
	switch d := desc.(type) {
	case CodexDescriptor:
		program = binaryOr(d.Binary, "codex")
	case GeminiDescriptor:
		program = binaryOr(d.Binary, "gemini")
	case CommandDescriptor:
		if d.UsesShell() {
			fields := strings.Fields(d.Shell)
			if len(fields) == 0 {
				return "", ErrMissingCommand
			}
			program = fields[0]
		} else {
			program = d.Argv[0]
		}
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownProviderKind, desc)
	}
	path, err := exec.LookPath(program)
	if err != nil {
		return "", fmt.Errorf("command not found in PATH: %s", program)
	}
	return path, nil
}
