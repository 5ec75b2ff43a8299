package search

import (
	"context"
	"errors"
	"testing"

	"digital-twin-be/internal/entity"
	"digital-twin-be/internal/pkg/logger"
	"digital-twin-be/internal/repository/contract"
	"digital-twin-be/internal/repository/specification"
	"digital-twin-be/pkg/embedding"
)

type fakeEmbedder struct {
	err      error
	lastText string
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeRepo struct {
	scored      []*contract.ScoredProfileEmbedding
	err         error
	lastTopK    int
	lastDocType string
}

func (f *fakeRepo) Create(ctx context.Context, e *entity.ProfileEmbedding) error       { return nil }
func (f *fakeRepo) CreateBulk(ctx context.Context, e []*entity.ProfileEmbedding) error { return nil }
func (f *fakeRepo) DeleteBySource(ctx context.Context, source string) error            { return nil }
func (f *fakeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProfileEmbedding, error) {
	return nil, nil
}
func (f *fakeRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (f *fakeRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, docType string, threshold float64) ([]*contract.ScoredProfileEmbedding, error) {
	f.lastTopK = limit
	f.lastDocType = docType
	return f.scored, f.err
}

func TestRetrieve(t *testing.T) {
	scored := []*contract.ScoredProfileEmbedding{
		{
			Embedding: &entity.ProfileEmbedding{
				Document: "LEGOLAS is a golf training system.",
				DocType:  "publication",
				Summary:  "CHI 2025 paper",
				Keywords: []string{"golf", "llm"},
				Source:   "publications",
			},
			Similarity: 0.91,
		},
		{
			Embedding: &entity.ProfileEmbedding{
				Document: "M.S. in AI Convergence at GIST.",
				DocType:  "education",
				Source:   "education",
			},
			Similarity: 0.74,
		},
	}

	t.Run("maps rows to passages", func(t *testing.T) {
		repo := &fakeRepo{scored: scored}
		r := NewRetriever(&fakeEmbedder{}, repo, logger.NewNopLogger())

		passages := r.Retrieve(context.Background(), "tell me about LEGOLAS", Options{})
		if len(passages) != 2 {
			t.Fatalf("Retrieve() returned %d passages", len(passages))
		}
		if passages[0].Text != "LEGOLAS is a golf training system." {
			t.Errorf("passage text = %q", passages[0].Text)
		}
		if passages[0].DocType != "publication" || passages[0].Source != "publications" {
			t.Errorf("passage metadata = %+v", passages[0])
		}
		if passages[0].Score <= passages[1].Score {
			t.Error("passages should keep similarity ordering")
		}
		if repo.lastTopK != defaultTopK {
			t.Errorf("topK = %d, want default %d", repo.lastTopK, defaultTopK)
		}
	})

	t.Run("doc type filter forwarded", func(t *testing.T) {
		repo := &fakeRepo{scored: scored}
		r := NewRetriever(&fakeEmbedder{}, repo, logger.NewNopLogger())

		r.Retrieve(context.Background(), "his degree", Options{TopK: 3, DocType: "education"})
		if repo.lastTopK != 3 || repo.lastDocType != "education" {
			t.Errorf("forwarded topK=%d docType=%q", repo.lastTopK, repo.lastDocType)
		}
	})

	t.Run("embedder failure yields empty slice", func(t *testing.T) {
		r := NewRetriever(&fakeEmbedder{err: errors.New("backend down")}, &fakeRepo{scored: scored}, logger.NewNopLogger())
		passages := r.Retrieve(context.Background(), "anything", Options{})
		if passages == nil || len(passages) != 0 {
			t.Errorf("Retrieve() = %v, want empty non-nil slice", passages)
		}
	})

	t.Run("repository failure yields empty slice", func(t *testing.T) {
		r := NewRetriever(&fakeEmbedder{}, &fakeRepo{err: errors.New("db down")}, logger.NewNopLogger())
		passages := r.Retrieve(context.Background(), "anything", Options{})
		if passages == nil || len(passages) != 0 {
			t.Errorf("Retrieve() = %v, want empty non-nil slice", passages)
		}
	})

	t.Run("long query truncated before embedding", func(t *testing.T) {
		emb := &fakeEmbedder{}
		r := NewRetriever(emb, &fakeRepo{}, logger.NewNopLogger())

		long := make([]rune, maxQueryRunes+500)
		for i := range long {
			long[i] = 'a'
		}
		r.Retrieve(context.Background(), string(long), Options{})
		if got := len([]rune(emb.lastText)); got != maxQueryRunes {
			t.Errorf("embedded query length = %d, want %d", got, maxQueryRunes)
		}
	})
}
