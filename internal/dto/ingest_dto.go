package dto

// PublishProfileRecordMessage is one profile record on its way to the
// indexer. Source identifies the record for idempotent re-ingestion.
type PublishProfileRecordMessage struct {
	Source   string   `json:"source"`
	DocType  string   `json:"doc_type"`
	Summary  string   `json:"summary,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Content  string   `json:"content"`
}
