package models

// InterviewRequest is the body of a conversation turn.
type InterviewRequest struct {
	Conversation []Message `json:"conversation"`
	NewMessage   string    `json:"newMessage"`
	ProfileID    string    `json:"profileId,omitempty"`
}

// InterviewResponse carries the traveler's reply.
type InterviewResponse struct {
	Reply string `json:"reply"`
}

// ScoreRequest is the body of an end-of-session scoring call.
type ScoreRequest struct {
	Conversation []Message `json:"conversation"`
}

// ScoreResponse carries the evaluation text.
type ScoreResponse struct {
	Score string `json:"score"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
