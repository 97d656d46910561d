package provider

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

const promptPlaceholder = "{prompt}"

// hostOS selects the shell used for command strings.
var hostOS = runtime.GOOS

type invocation struct {
	name       string
	args       []string
	outputFile string
}

func lastMessagePath(dir string) string {
	return filepath.Join(dir, "last-message.txt")
}

func codexInvocation(d CodexDescriptor, prompt string, mode Mode, outputFile string) invocation {
	params := d.Params(mode)
	args := []string{
		"--ask-for-approval", params.Approval,
		"exec",
		"--sandbox", params.Sandbox,
		"--skip-git-repo-check",
		"--output-last-message", outputFile,
	}
	if model := strings.TrimSpace(d.Model); model != "" {
		args = append(args, "--model", model)
	}
	args = append(args, prompt)
	return invocation{name: binaryOr(d.Binary, "codex"), args: args, outputFile: outputFile}
}

func geminiInvocation(d GeminiDescriptor, prompt string, mode Mode) invocation {
	params := d.Params(mode)
	args := []string{}
	if params.Sandbox != nil && *params.Sandbox {
		args = append(args, "--sandbox")
	}
	args = append(args, "--approval-mode", params.ApprovalMode)
	if model := strings.TrimSpace(d.Model); model != "" {
		args = append(args, "--model", model)
	}
	args = append(args, "--prompt", prompt)
	return invocation{name: binaryOr(d.Binary, "gemini"), args: args}
}

// commandInvocation substitutes the prompt into a configured command. Shell
// strings get the prompt shell-quoted; argv lists only replace an element
// that is exactly the placeholder.
func commandInvocation(d CommandDescriptor, prompt string) (invocation, error) {
	if d.UsesShell() {
		quoted := shellquote.Join(prompt)
		script := d.Shell
		if strings.Contains(script, promptPlaceholder) {
			script = strings.ReplaceAll(script, promptPlaceholder, quoted)
		} else {
			script = script + " " + quoted
		}
		shell, args, err := shellCommandInvocation(hostOS, script)
		if err != nil {
			return invocation{}, err
		}
		return invocation{name: shell, args: args}, nil
	}

	args := make([]string, 0, len(d.Argv))
	substituted := false
	for _, arg := range d.Argv[1:] {
		if arg == promptPlaceholder {
			args = append(args, prompt)
			substituted = true
			continue
		}
		args = append(args, arg)
	}
	if !substituted {
		args = append(args, prompt)
	}
	return invocation{name: d.Argv[0], args: args}, nil
}

// Prompt quoting is POSIX, so shell strings always go through sh rather than
// the user's $SHELL. cmd.exe cannot parse that quoting.
func shellCommandInvocation(goos, script string) (string, []string, error) {
	if goos == "windows" {
		return "", nil, ErrShellUnsupported
	}
	return "sh", []string{"-c", script}, nil
}

func binaryOr(binary, fallback string) string {
	if trimmed := strings.TrimSpace(binary); trimmed != "" {
		return trimmed
	}
	return fallback
}
