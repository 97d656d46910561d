package ui

import (
	"fmt"
	"strings"

	"github.com/ashwch/aiarch/internal/config"
	"github.com/charmbracelet/lipgloss"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("87"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("153"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("109"))
)

// RenderSummary draws the routing summary as a bordered card.
func RenderSummary(cfg config.Config) string {
	lines := []string{titleStyle.Render("aiarch routing"), ""}
	section := ""
	for _, line := range summaryLines(config.Summary(cfg), 24) {
		switch {
		case strings.HasSuffix(line, ":"):
			if section != "" {
				lines = append(lines, "")
			}
			section = line
			lines = append(lines, sectionStyle.Render(line))
		default:
			lines = append(lines, bodyStyle.Render(line))
		}
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func summaryLines(summary string, maxLines int) []string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil
	}
	if maxLines <= 0 {
		maxLines = 24
	}
	lines := make([]string, 0, maxLines)
	for _, line := range strings.Split(summary, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	if len(lines) <= maxLines {
		return lines
	}
	out := append([]string{}, lines[:maxLines]...)
	return append(out, fmt.Sprintf("- +%d more", len(lines)-maxLines))
}
