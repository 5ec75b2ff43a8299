package implementation

import (
	"context"

	"digital-twin-be/internal/entity"
	"digital-twin-be/internal/mapper"
	"digital-twin-be/internal/model"
	"digital-twin-be/internal/repository/contract"
	"digital-twin-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ProfileEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProfileEmbeddingMapper
}

func NewProfileEmbeddingRepository(db *gorm.DB) contract.ProfileEmbeddingRepository {
	return &ProfileEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewProfileEmbeddingMapper(),
	}
}

func (r *ProfileEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProfileEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.ProfileEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProfileEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.ProfileEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	models := r.mapper.ToModels(embeddings)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	// Update generated IDs back to entities
	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ProfileEmbeddingRepositoryImpl) DeleteBySource(ctx context.Context, source string) error {
	query := specification.BySource{Source: source}.Apply(r.db.WithContext(ctx).Unscoped())
	return query.Delete(&model.ProfileEmbedding{}).Error
}

func (r *ProfileEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProfileEmbedding, error) {
	var models []*model.ProfileEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ProfileEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.ProfileEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore ranks chunks by pgvector cosine distance.
// Similarity is computed as 1 - (embedding_value <=> query_vector).
func (r *ProfileEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, docType string, threshold float64) ([]*contract.ScoredProfileEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.ProfileEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("profile_embeddings").
		Select("profile_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold)
	query = specification.NotDeleted{}.Apply(query)

	if docType != "" {
		query = specification.ByDocType{DocType: docType}.Apply(query)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredProfileEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredProfileEmbedding{
			Embedding:  r.mapper.ToEntity(&res.ProfileEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
