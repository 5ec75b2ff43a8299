package store

import "time"

// Turn is a single message exchanged within a session. Turns are immutable
// once appended and strictly time-ordered inside Session.Turns.
type Turn struct {
	Role      string            `json:"role"` // "user" | "assistant"
	Text      string            `json:"text"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Session is the active in-memory conversation state for one visitor.
// Owned exclusively by the session repository; lost on process restart.
type Session struct {
	ID                string    `json:"id"`
	Turns             []Turn    `json:"turns"`
	CreatedAt         time.Time `json:"created_at"`
	LastUpdatedAt     time.Time `json:"last_updated_at"`
	PreferredLanguage string    `json:"preferred_language"` // "en" | "ko"
}

// Passage is one retrieved chunk from the vector index. Ephemeral: produced
// per query, never persisted. Score is comparison-only within a single
// retrieval (cosine similarity).
type Passage struct {
	Text     string   `json:"text"`
	DocType  string   `json:"doc_type"`
	Summary  string   `json:"summary,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Source   string   `json:"source"`
	Score    float32  `json:"score"`
}

// SiteLink is a navigable label/href pair used only for response
// post-processing, never for retrieval.
type SiteLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	LangEnglish = "en"
	LangKorean  = "ko"
)
