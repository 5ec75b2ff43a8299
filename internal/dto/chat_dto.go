package dto

// ChatTurn is one prior message supplied by the client when it holds the
// conversation history itself.
type ChatTurn struct {
	Role string `json:"role" validate:"required,oneof=user assistant model"`
	Text string `json:"text" validate:"required"`
}

type ChatRequest struct {
	Message   string     `json:"message" validate:"required"`
	History   []ChatTurn `json:"history,omitempty" validate:"omitempty,dive"`
	SessionID string     `json:"sessionId,omitempty"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}
