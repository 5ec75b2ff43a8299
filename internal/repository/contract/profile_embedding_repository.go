package contract

import (
	"context"

	"digital-twin-be/internal/entity"
	"digital-twin-be/internal/repository/specification"
)

// ScoredProfileEmbedding wraps ProfileEmbedding with its similarity score
type ScoredProfileEmbedding struct {
	Embedding  *entity.ProfileEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ProfileEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ProfileEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ProfileEmbedding) error
	// DeleteBySource hard-deletes every chunk of one ingested document so a
	// re-ingest converges instead of accumulating rows
	DeleteBySource(ctx context.Context, source string) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProfileEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns embeddings with their cosine similarity,
	// filtered by threshold; docType narrows the search when non-empty
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, docType string, threshold float64) ([]*ScoredProfileEmbedding, error)
}
