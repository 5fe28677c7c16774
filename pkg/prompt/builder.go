package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/borderdrill/borderdrill/pkg/models"
)

// ErrInvalidInput is returned for caller errors detected before any provider call.
var ErrInvalidInput = errors.New("invalid input")

// Validate checks the new officer message and the roles of the history.
func Validate(history []models.Message, newMessage string) error {
	if strings.TrimSpace(newMessage) == "" {
		return fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}
	for i, m := range history {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidInput, i, m.Role)
		}
	}
	return nil
}

// Build assembles the message sequence sent to the completion provider:
// the system prompt, the sanitized history, then the sanitized new message.
// The input slice is never modified.
func Build(history []models.Message, newMessage string, p *models.Persona) ([]models.Message, error) {
	if err := Validate(history, newMessage); err != nil {
		return nil, err
	}

	out := make([]models.Message, 0, len(history)+2)
	out = append(out, models.Message{Role: models.RoleSystem, Content: SystemPrompt(p)})
	out = append(out, SanitizeHistory(history)...)
	out = append(out, models.Message{Role: models.RoleUser, Content: Sanitize(newMessage)})
	return out, nil
}
