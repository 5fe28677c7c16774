// Package gateway talks to an OpenAI-compatible chat completion endpoint.
package gateway

import (
	"context"
	"errors"

	"github.com/borderdrill/borderdrill/pkg/models"
)

// ErrProvider wraps every failure coming from the completion provider.
var ErrProvider = errors.New("provider error")

// Completion is the generated text plus what the provider reported about it.
type Completion struct {
	Text  string
	Model string
	Usage *models.Usage
}

// Gateway sends a message sequence to a completion provider. Implementations
// do not retry; every error wraps ErrProvider.
type Gateway interface {
	Complete(ctx context.Context, messages []models.Message, temperature float64) (*Completion, error)
}
