package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var categoryRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9 -]{0,48}[a-z0-9]$`)

var validExperiences = map[string]struct{}{
	"beginner":     {},
	"intermediate": {},
	"advanced":     {},
	"expert":       {},
}

// ValidateExperience checks a running experience level.
func ValidateExperience(level string) error {
	if level == "" {
		return nil
	}
	if _, ok := validExperiences[strings.ToLower(level)]; !ok {
		return fmt.Errorf("running experience must be one of beginner, intermediate, advanced, expert")
	}
	return nil
}

// ValidateCategories checks an event's category list. Categories are short
// lowercase labels like "5k", "10k", "half marathon".
func ValidateCategories(categories []string) error {
	if len(categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	if len(categories) > 10 {
		return fmt.Errorf("at most 10 categories are allowed")
	}
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if !categoryRegex.MatchString(c) {
			return fmt.Errorf("category %q must be 2-50 lowercase characters (letters, numbers, spaces, hyphens)", c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate category %q", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
