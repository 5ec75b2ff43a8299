// Package search performs the vector-index lookup of the pipeline: embed
// the (rewritten) query and rank profile chunks by cosine similarity.
package search

import (
	"context"

	"digital-twin-be/internal/pkg/logger"
	"digital-twin-be/internal/repository/contract"
	"digital-twin-be/pkg/embedding"
	"digital-twin-be/pkg/store"
)

const (
	defaultTopK = 5
	// maxQueryRunes bounds the embedding input; anything longer adds noise
	// without improving retrieval.
	maxQueryRunes = 2048
)

// Options narrows a retrieval.
type Options struct {
	TopK    int
	DocType string
	// MinScore drops matches below this cosine similarity. Zero keeps all.
	MinScore float64
}

type Retriever struct {
	embedder embedding.EmbeddingProvider
	repo     contract.ProfileEmbeddingRepository
	logger   logger.ILogger
}

func NewRetriever(embedder embedding.EmbeddingProvider, repo contract.ProfileEmbeddingRepository, log logger.ILogger) *Retriever {
	return &Retriever{
		embedder: embedder,
		repo:     repo,
		logger:   log,
	}
}

// Retrieve returns the best-matching profile passages for a query. Failures
// are logged and swallowed: the caller gets an empty slice and the turn
// proceeds without retrieved context.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts Options) []store.Passage {
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}

	embedded, err := r.embedder.Generate(truncateQuery(query), embedding.TaskRetrievalQuery)
	if err != nil {
		r.logger.Warn("rag.search", "query embedding failed, returning no passages", map[string]interface{}{
			"error": err.Error(),
		})
		return []store.Passage{}
	}

	scored, err := r.repo.SearchSimilarWithScore(ctx, embedded.Embedding.Values, opts.TopK, opts.DocType, opts.MinScore)
	if err != nil {
		r.logger.Warn("rag.search", "similarity search failed, returning no passages", map[string]interface{}{
			"error": err.Error(),
		})
		return []store.Passage{}
	}

	passages := make([]store.Passage, 0, len(scored))
	for _, s := range scored {
		if s.Embedding == nil {
			continue
		}
		passages = append(passages, store.Passage{
			Text:     s.Embedding.Document,
			DocType:  s.Embedding.DocType,
			Summary:  s.Embedding.Summary,
			Keywords: s.Embedding.Keywords,
			Source:   s.Embedding.Source,
			Score:    float32(s.Similarity),
		})
	}

	r.logger.Debug("rag.search", "retrieval complete", map[string]interface{}{
		"query_len": len(query),
		"passages":  len(passages),
	})
	return passages
}

func truncateQuery(query string) string {
	runes := []rune(query)
	if len(runes) <= maxQueryRunes {
		return query
	}
	return string(runes[:maxQueryRunes])
}
