package models

import "time"

// Usage represents token usage from an LLM response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionKind distinguishes traveler replies from session scoring.
type CompletionKind string

const (
	KindReply CompletionKind = "reply"
	KindScore CompletionKind = "score"
)

// UsageRecord tracks a single gateway call.
type UsageRecord struct {
	ID               int64          `json:"id"`
	RequestID        string         `json:"request_id"`
	SessionID        string         `json:"session_id,omitempty"`
	Kind             CompletionKind `json:"kind"`
	PersonaID        string         `json:"persona_id,omitempty"`
	Model            string         `json:"model"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	TotalTokens      int            `json:"total_tokens"`
	LatencyMs        int64          `json:"latency_ms"`
	CreatedAt        time.Time      `json:"created_at"`
}

// UsageSummary aggregates usage across calls.
type UsageSummary struct {
	Kind            CompletionKind `json:"kind"`
	PersonaID       string         `json:"persona_id"`
	Model           string         `json:"model"`
	RequestCount    int            `json:"request_count"`
	TotalPrompt     int            `json:"total_prompt"`
	TotalCompletion int            `json:"total_completion"`
	TotalTokens     int            `json:"total_tokens"`
}
