// Package classify maps free-text prompts onto routing categories.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

type Category string

const (
	Planning     Category = "planning"
	Architecture Category = "architecture"
	Review       Category = "review"
)

// All lists categories in display order.
func All() []Category {
	return []Category{Planning, Architecture, Review}
}

func ParseCategory(raw string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case Planning:
		return Planning, nil
	case Architecture:
		return Architecture, nil
	case Review:
		return Review, nil
	default:
		return "", fmt.Errorf("unknown category %q (expected planning, architecture or review)", raw)
	}
}

type rule struct {
	pattern  *regexp.Regexp
	category Category
}

// Rules are scanned in order and the first match wins, so a prompt that
// mentions both a review and a plan is a review.
var rules = []rule{
	{
		pattern:  regexp.MustCompile(`(?i)\b(review|reviews|reviewing|audit|auditing|critique|feedback|security risks?|code smells?|lgtm|pr review|pull request)\b`),
		category: Review,
	},
	{
		pattern:  regexp.MustCompile(`(?i)\b(architecture|architectural|architect|system design|design|designs|components?|module boundar(?:y|ies)|scalability|schema|interfaces?|data model)\b`),
		category: Architecture,
	},
	{
		pattern:  regexp.MustCompile(`(?i)\b(plan|plans|planning|roadmap|milestones?|schedule|timeline|sprint|estimates?|prioriti[sz]e|breakdown|next steps)\b`),
		category: Planning,
	},
}

// Classify returns the first category whose rule matches the prompt.
func Classify(prompt string) (Category, bool) {
	if strings.TrimSpace(prompt) == "" {
		return "", false
	}
	for _, r := range rules {
		if r.pattern.MatchString(prompt) {
			return r.category, true
		}
	}
	return "", false
}
