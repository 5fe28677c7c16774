package prompt

import (
	"regexp"

	"github.com/borderdrill/borderdrill/pkg/models"
)

// officerLabel matches a role label echoed back by the client, e.g. "Officer: ".
var officerLabel = regexp.MustCompile(`(?i)^officer:\s*`)

// Sanitize strips leading "Officer:" labels from officer-authored text.
// Repeated labels ("Officer: officer: hi") are all removed.
func Sanitize(s string) string {
	for {
		loc := officerLabel.FindStringIndex(s)
		if loc == nil {
			return s
		}
		s = s[loc[1]:]
	}
}

// SanitizeHistory returns a copy of history with every user message sanitized.
// Other roles pass through untouched.
func SanitizeHistory(history []models.Message) []models.Message {
	out := make([]models.Message, len(history))
	for i, m := range history {
		if m.Role == models.RoleUser {
			m.Content = Sanitize(m.Content)
		}
		out[i] = m
	}
	return out
}
