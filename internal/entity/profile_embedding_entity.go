package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProfileEmbedding is one indexed chunk of the owner's profile with its
// retrieval metadata.
type ProfileEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	DocType        string
	Summary        string
	Keywords       []string
	Source         string
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
