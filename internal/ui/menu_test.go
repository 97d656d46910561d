package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ashwch/aiarch/internal/classify"
	"github.com/ashwch/aiarch/internal/config"
	"github.com/stretchr/testify/require"
)

func runMenu(t *testing.T, cfg config.Config, answers ...string) (config.Config, bool, string) {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(answers, "\n") + "\n")
	edited, saved, err := RunMenu(NewPlainPrompter(in, &out), cfg)
	require.NoError(t, err)
	return edited, saved, out.String()
}

func TestRunMenuSetsTargetTogglesImplicitAndSaves(t *testing.T) {
	cfg := config.Default()

	edited, saved, _ := runMenu(t, cfg, "3", "off", "4", "7", "y")

	require.True(t, saved)
	require.Equal(t, config.TargetOff, edited.Target(classify.Review))
	require.False(t, edited.Implicit)
	require.Equal(t, config.DefaultTarget, cfg.Target(classify.Review), "input config must not change")
	require.True(t, cfg.Implicit)
}

func TestRunMenuEndOfInputQuitsWithoutSaving(t *testing.T) {
	cfg := config.Default()
	var out bytes.Buffer

	edited, saved, err := RunMenu(NewPlainPrompter(strings.NewReader("3\nclaude\n"), &out), cfg)

	require.NoError(t, err)
	require.False(t, saved)
	require.Equal(t, config.DefaultTarget, edited.Target(classify.Review))
}

func TestRunMenuDeclinedSaveReturnsToMenu(t *testing.T) {
	_, saved, out := runMenu(t, config.Default(), "7", "n", "8")

	require.False(t, saved)
	require.Equal(t, 2, strings.Count(out, "aiarch routing menu"))
}

func TestRunMenuAddsCommandProviderAndTargetsIt(t *testing.T) {
	edited, saved, _ := runMenu(t, config.Default(), "5", "my-tool", "my-tool --ask {prompt}", "1", "my-tool", "7", "y")

	require.True(t, saved)
	require.Equal(t, "my-tool", edited.Target(classify.Planning))
	require.Equal(t, map[string]any{"kind": "command", "command": "my-tool --ask {prompt}"}, edited.Providers["my-tool"])
}

func TestRunMenuReportsInvalidProviderName(t *testing.T) {
	_, saved, out := runMenu(t, config.Default(), "5", "Bad Name", "echo", "8")

	require.False(t, saved)
	require.Contains(t, out, "error: invalid provider name")
}

func TestRunMenuRemovesCustomProvider(t *testing.T) {
	edited, saved, _ := runMenu(t, config.Default(), "5", "x-tool", "echo", "6", "1", "7", "y")

	require.True(t, saved)
	require.NotContains(t, edited.Providers, "x-tool")
	require.Contains(t, edited.Providers, "codex")
}

func TestRunMenuNothingToRemove(t *testing.T) {
	_, _, out := runMenu(t, config.Default(), "6", "8")

	require.Contains(t, out, "no removable providers")
}

func TestPlainChooseRepromptsOnInvalidAnswer(t *testing.T) {
	var out bytes.Buffer
	p := NewPlainPrompter(strings.NewReader("9\ngemini\n"), &out)

	got, err := p.Choose("pick", []Option{{Label: "codex", Value: "codex"}, {Label: "gemini", Value: "gemini"}})

	require.NoError(t, err)
	require.Equal(t, "gemini", got)
	require.Contains(t, out.String(), `invalid choice "9"`)
}

func TestPlainConfirmDefaultsToNo(t *testing.T) {
	p := NewPlainPrompter(strings.NewReader("\n"), &bytes.Buffer{})

	ok, err := p.Confirm("Save?", "")

	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewPrompterPlainBackend(t *testing.T) {
	p := NewPrompter(BackendPlain, strings.NewReader(""), &bytes.Buffer{})
	_, ok := p.(*PlainPrompter)
	require.True(t, ok)
}

func TestRenderSummaryIncludesTargets(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.SetTarget(classify.Review, "gemini"))

	rendered := RenderSummary(cfg)

	require.Contains(t, rendered, "aiarch routing")
	require.Contains(t, rendered, "- review: gemini")
	require.Contains(t, rendered, "Providers:")
}

func TestSummaryLinesLimit(t *testing.T) {
	lines := summaryLines("- a\n- b\n\n- c\n- d", 2)
	require.Equal(t, []string{"- a", "- b", "- +2 more"}, lines)
}

func TestRunMenuKeepsExtraSectionKeys(t *testing.T) {
	cfg := config.Default()
	cfg.Extra = map[string]any{"roles": map[string]any{"qa": "gemini"}}

	edited, saved, _ := runMenu(t, cfg, "4", "7", "y")

	require.True(t, saved)
	require.Equal(t, cfg.Extra, edited.Extra)
}
