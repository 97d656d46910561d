package safety

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type redactionRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Provider CLIs echo request headers and environment on auth failures, so
// diagnostics pass through these rules before they are shown or journaled.
var diagnosticRedactionRules = []redactionRule{
	{
		pattern:     regexp.MustCompile(`(?i)\b(authorization\s*:\s*bearer)\s+([^\s"']+)`),
		replacement: `$1 <redacted>`,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b([a-z0-9_]*(?:token|secret|password|api[_-]?key|access[_-]?key)[a-z0-9_]*)\s*[=:]\s*([^\s"']+|"[^"]*"|'[^']*')`),
		replacement: `$1=<redacted>`,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(--[a-z0-9_-]*(?:token|secret|password|api[_-]?key|authorization)[a-z0-9_-]*)(\s*=\s*|\s+)([^\s"']+|"[^"]*"|'[^']*')`),
		replacement: `$1=<redacted>`,
	},
	{
		pattern:     regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{16,}`),
		replacement: `<redacted-openai-key>`,
	},
	{
		pattern:     regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{30,}`),
		replacement: `<redacted-google-key>`,
	},
}

// RedactText scrubs common secret/token/password patterns from free-form text.
func RedactText(input string) string {
	redacted := input
	for _, rule := range diagnosticRedactionRules {
		redacted = rule.pattern.ReplaceAllString(redacted, rule.replacement)
	}
	return redacted
}

// Diagnostic redacts text and caps it at max bytes (0 means no cap). The cut
// never splits a UTF-8 sequence.
func Diagnostic(text string, max int) string {
	cleaned := strings.TrimSpace(RedactText(text))
	if max <= 0 || len(cleaned) <= max {
		return cleaned
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
		cut--
	}
	return cleaned[:cut] + "..."
}
