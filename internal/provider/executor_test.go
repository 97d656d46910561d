package provider

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ashwch/aiarch/internal/config"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script test is not portable on windows")
	}
}

func configWith(providers map[string]map[string]any) config.Config {
	cfg := config.Default()
	for name, desc := range providers {
		cfg.Providers[name] = config.DeepMerge(cfg.Providers[name], desc)
	}
	return cfg
}

func execute(t *testing.T, cfg config.Config, name, prompt string, mode Mode) (Result, string) {
	t.Helper()
	root := t.TempDir()
	return NewExecutor(cfg, nil).Execute(context.Background(), name, prompt, root, mode), root
}

// writeFakeTool writes an executable script that records its argv, one per
// line, to <dir>/args.txt before running body.
func writeFakeTool(t *testing.T, body string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > '" + argsFile + "'\n" + body + "\n"
	path := filepath.Join(dir, "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path, argsFile
}

func readArgs(t *testing.T, argsFile string) []string {
	t.Helper()
	payload, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(payload), "\n"), "\n")
}

func argAfter(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestExecuteUnknownProviderStartsNothing(t *testing.T) {
	result, _ := execute(t, config.Default(), "nope", "hi", ModeExplicit)

	require.NotZero(t, result.Status)
	require.Contains(t, result.Error, "unknown provider")
	require.Empty(t, result.Output)
}

func TestExecuteShellCommandSubstitutesPrompt(t *testing.T) {
	skipOnWindows(t)
	cfg := configWith(map[string]map[string]any{
		"echo": {"kind": "command", "command": "echo {prompt}"},
	})

	result, _ := execute(t, cfg, "echo", "hi", ModeExplicit)

	require.Equal(t, 0, result.Status)
	require.Equal(t, "hi", result.Output)
}

func TestExecuteShellCommandQuotesAppendedPrompt(t *testing.T) {
	skipOnWindows(t)
	cfg := configWith(map[string]map[string]any{
		"printer": {"kind": "command", "command": "printf '%s'"},
	})

	result, _ := execute(t, cfg, "printer", "a b; echo injected $(id)", ModeExplicit)

	require.Equal(t, 0, result.Status)
	require.Equal(t, "a b; echo injected $(id)", result.Output)
}

func TestExecuteArgvCommandReplacesExactPlaceholder(t *testing.T) {
	skipOnWindows(t)
	cfg := configWith(map[string]map[string]any{
		"printer": {"kind": "command", "command": []any{"printf", "[%s]", "{prompt}"}},
	})

	result, _ := execute(t, cfg, "printer", "$(echo not a shell)", ModeExplicit)

	require.Equal(t, 0, result.Status)
	require.Equal(t, "[$(echo not a shell)]", result.Output)
}

func TestExecuteArgvCommandAppendsPrompt(t *testing.T) {
	skipOnWindows(t)
	tool, argsFile := writeFakeTool(t, "echo done")
	cfg := configWith(map[string]map[string]any{
		"fake": {"kind": "command", "command": []any{tool, "--flag", "x{prompt}"}},
	})

	result, _ := execute(t, cfg, "fake", "hello world", ModeExplicit)

	require.Equal(t, 0, result.Status)
	require.Equal(t, "done", result.Output)
	require.Equal(t, []string{"--flag", "x{prompt}", "hello world"}, readArgs(t, argsFile))
}

func TestExecuteRunsFromProjectRoot(t *testing.T) {
	skipOnWindows(t)
	cfg := configWith(map[string]map[string]any{
		"where": {"kind": "command", "command": []any{"sh", "-c", "pwd"}},
	})

	result, root := execute(t, cfg, "where", "ignored", ModeExplicit)

	require.Equal(t, 0, result.Status)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(result.Output)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestExecuteTrimsTrailingWhitespace(t *testing.T) {
	skipOnWindows(t)
	cfg := configWith(map[string]map[string]any{
		"ws": {"kind": "command", "command": "printf '  answer  \\n\\n'; printf 'warn \\n' >&2; true"},
	})

	result, _ := execute(t, cfg, "ws", "", ModeExplicit)

	require.Equal(t, 0, result.Status)
	require.Equal(t, "  answer", result.Output)
	require.Equal(t, "warn", result.Error)
}

func TestExecuteErrorFallsBackToStdout(t *testing.T) {
	skipOnWindows(t)
	cfg := configWith(map[string]map[string]any{
		"quiet-fail": {"kind": "command", "command": "echo diagnostics on stdout; exit 3 #"},
		"loud-fail":  {"kind": "command", "command": "echo partial; echo boom >&2; exit 2 #"},
	})

	quiet, _ := execute(t, cfg, "quiet-fail", "x", ModeExplicit)
	require.Equal(t, 3, quiet.Status)
	require.Equal(t, "diagnostics on stdout", quiet.Error)

	loud, _ := execute(t, cfg, "loud-fail", "x", ModeExplicit)
	require.Equal(t, 2, loud.Status)
	require.Equal(t, "boom", loud.Error)
	require.Equal(t, "partial", loud.Output)
}

func TestExecuteDescriptorErrorsBecomeResults(t *testing.T) {
	cfg := configWith(map[string]map[string]any{
		"no-command": {"kind": "command"},
		"empty-list": {"kind": "command", "command": []any{}},
		"mystery":    {"kind": "llama"},
	})

	for name, want := range map[string]string{
		"no-command": "missing command",
		"empty-list": "missing command",
		"mystery":    "unknown provider kind",
	} {
		result, _ := execute(t, cfg, name, "x", ModeExplicit)
		require.NotZero(t, result.Status, name)
		require.Contains(t, result.Error, want, name)
	}
}

func TestExecuteMissingProgramIsNotRunnable(t *testing.T) {
	cfg := configWith(map[string]map[string]any{
		"ghost": {"kind": "command", "command": []any{filepath.Join(t.TempDir(), "missing-binary")}},
	})

	result, _ := execute(t, cfg, "ghost", "x", ModeExplicit)

	require.Equal(t, exitCommandNotRunnable, result.Status)
	require.Contains(t, result.Error, "could not start")
}

func TestExecuteCodexPrefersLastMessageFile(t *testing.T) {
	skipOnWindows(t)
	tool, argsFile := writeFakeTool(t, `out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "--output-last-message" ]; then out="$arg"; fi
  prev="$arg"
done
echo "thinking..."
printf 'final answer\n\n' > "$out"`)
	cfg := configWith(map[string]map[string]any{
		"codex": {"binary": tool},
	})

	result, root := execute(t, cfg, "codex", "plan it", ModeImplicit)

	require.Equal(t, 0, result.Status)
	require.Equal(t, "final answer", result.Output)

	args := readArgs(t, argsFile)
	require.Equal(t, "never", argAfter(args, "--ask-for-approval"))
	require.Equal(t, "read-only", argAfter(args, "--sandbox"))
	require.Equal(t, "gpt-5.2-codex", argAfter(args, "--model"))
	require.Contains(t, args, "--skip-git-repo-check")
	require.Equal(t, "plan it", args[len(args)-1])

	outputFile := argAfter(args, "--output-last-message")
	require.NotEmpty(t, outputFile)
	require.NotContains(t, outputFile, root)
	_, err := os.Stat(filepath.Dir(outputFile))
	require.True(t, os.IsNotExist(err), "expected codex temp dir to be removed")
}

func TestExecuteCodexReadsLastMessageOnFailure(t *testing.T) {
	skipOnWindows(t)
	tool, argsFile := writeFakeTool(t, `prev=""
for arg in "$@"; do
  if [ "$prev" = "--output-last-message" ]; then echo "partial answer" > "$arg"; fi
  prev="$arg"
done
echo "rate limited" >&2
exit 4`)
	cfg := configWith(map[string]map[string]any{
		"codex": {"binary": tool},
	})

	result, _ := execute(t, cfg, "codex", "review", ModeExplicit)

	require.Equal(t, 4, result.Status)
	require.Equal(t, "partial answer", result.Output)
	require.Equal(t, "rate limited", result.Error)

	args := readArgs(t, argsFile)
	require.Equal(t, "on-request", argAfter(args, "--ask-for-approval"))
	require.Equal(t, "workspace-write", argAfter(args, "--sandbox"))
}

func TestExecuteCodexToleratesMissingLastMessage(t *testing.T) {
	skipOnWindows(t)
	tool, _ := writeFakeTool(t, `echo "stdout answer"`)
	cfg := configWith(map[string]map[string]any{
		"codex": {"binary": tool},
	})

	result, _ := execute(t, cfg, "codex", "x", ModeExplicit)

	require.Equal(t, 0, result.Status)
	require.Equal(t, "stdout answer", result.Output)
}

func TestExecuteGeminiModeBundles(t *testing.T) {
	skipOnWindows(t)
	tool, argsFile := writeFakeTool(t, `echo "gemini says hi"`)
	cfg := configWith(map[string]map[string]any{
		"gemini": {"binary": tool, "model": ""},
	})

	result, _ := execute(t, cfg, "gemini", "design it", ModeImplicit)
	require.Equal(t, 0, result.Status)
	require.Equal(t, "gemini says hi", result.Output)
	args := readArgs(t, argsFile)
	require.Equal(t, []string{"--sandbox", "--approval-mode", "default", "--prompt", "design it"}, args)

	result, _ = execute(t, cfg, "gemini", "design it", ModeExplicit)
	require.Equal(t, 0, result.Status)
	args = readArgs(t, argsFile)
	require.Equal(t, []string{"--approval-mode", "auto_edit", "--prompt", "design it"}, args)
}
