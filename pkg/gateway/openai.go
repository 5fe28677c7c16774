package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/borderdrill/borderdrill/pkg/models"
)

const maxErrorBody = 512

// OpenAI is a Gateway for the /v1/chat/completions API.
type OpenAI struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAI creates an OpenAI gateway. The API key is checked on each call,
// not here, so a process can start without credentials.
func NewOpenAI(baseURL, apiKey, model string, timeout time.Duration) *OpenAI {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAI{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Model returns the configured model identifier.
func (o *OpenAI) Model() string {
	return o.model
}

// Complete sends one non-streaming chat completion request.
func (o *OpenAI) Complete(ctx context.Context, messages []models.Message, temperature float64) (*Completion, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrProvider)
	}

	target, err := url.Parse(o.baseURL + "/v1/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("%w: invalid provider URL: %v", ErrProvider, err)
	}

	body, err := json.Marshal(models.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: temperature,
		Stream:      false,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrProvider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, errorDetail(respBody))
	}

	var chatResp models.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrProvider, err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response has no choices", ErrProvider)
	}

	model := chatResp.Model
	if model == "" {
		model = o.model
	}
	return &Completion{
		Text:  chatResp.Choices[0].Message.Content,
		Model: model,
		Usage: chatResp.Usage,
	}, nil
}

// errorDetail prefers the provider's error message over the raw body.
func errorDetail(body []byte) string {
	var e models.ProviderErrorBody
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return string(body)
}
