package prompt

import (
	"strings"

	"github.com/borderdrill/borderdrill/pkg/models"
)

// RenderTranscript formats the officer/traveler turns one per line.
// System messages are not part of the dialogue and are skipped.
func RenderTranscript(transcript []models.Message) []string {
	lines := make([]string, 0, len(transcript))
	for _, m := range transcript {
		switch m.Role {
		case models.RoleUser:
			lines = append(lines, "Officer: "+Sanitize(m.Content))
		case models.RoleAssistant:
			lines = append(lines, "Traveler: "+m.Content)
		}
	}
	return lines
}

// BuildScorePrompt wraps the transcript in a two-message evaluation request.
// An empty transcript still renders; the model is left to score it.
func BuildScorePrompt(transcript []models.Message) []models.Message {
	var b strings.Builder
	mustExecute(scoreTemplate, &b, RenderTranscript(transcript))

	return []models.Message{
		{Role: models.RoleSystem, Content: scoringSystem},
		{Role: models.RoleUser, Content: b.String()},
	}
}
