package router

import (
	"fmt"
	"strings"
)

// Render formats a decision for the caller. Silent decisions render to "".
func Render(d Decision) string {
	lines := []string{}
	switch d.Entry {
	case EntryExplicit:
		switch d.Outcome {
		case OutcomeNotInvoked:
			lines = append(lines, fmt.Sprintf("Routing target for %s is '%s'. No external provider invoked.", d.Category, d.Target))
		case OutcomeFailed:
			lines = append(lines, "Provider invocation failed. Falling back to Claude.")
			lines = appendDiagnostic(lines, d.Diagnostic)
		case OutcomeEmpty:
			lines = append(lines, "Provider produced no output. Falling back to Claude.")
		case OutcomeOutput:
			lines = append(lines, fmt.Sprintf("Provider output (%s, %s):", d.Target, d.Category), d.Output)
		}
	case EntryImplicit:
		switch d.Outcome {
		case OutcomeFailed:
			lines = append(lines, "Provider routing failed; continue with Claude.")
			lines = appendDiagnostic(lines, d.Diagnostic)
		case OutcomeEmpty:
			lines = append(lines, "Provider routing produced no output; continue with Claude.")
		case OutcomeOutput:
			lines = append(lines,
				"Provider routing (use as primary guidance):",
				"Category: "+string(d.Category),
				"Provider: "+d.Target,
				d.Output,
			)
		}
	}
	return strings.Join(lines, "\n")
}

func appendDiagnostic(lines []string, diagnostic string) []string {
	if strings.TrimSpace(diagnostic) == "" {
		return lines
	}
	return append(lines, "Provider error: "+diagnostic)
}
