package mapper

import (
	"encoding/json"
	"time"

	"digital-twin-be/internal/entity"
	"digital-twin-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProfileEmbeddingMapper struct{}

func NewProfileEmbeddingMapper() *ProfileEmbeddingMapper {
	return &ProfileEmbeddingMapper{}
}

func (m *ProfileEmbeddingMapper) ToEntity(e *model.ProfileEmbedding) *entity.ProfileEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	var keywords []string
	if len(e.Keywords) > 0 {
		// Malformed keyword JSON degrades to no keywords
		_ = json.Unmarshal(e.Keywords, &keywords)
	}

	return &entity.ProfileEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		DocType:        e.DocType,
		Summary:        e.Summary,
		Keywords:       keywords,
		Source:         e.Source,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *ProfileEmbeddingMapper) ToModel(e *entity.ProfileEmbedding) *model.ProfileEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var keywords datatypes.JSON
	if len(e.Keywords) > 0 {
		raw, err := json.Marshal(e.Keywords)
		if err == nil {
			keywords = datatypes.JSON(raw)
		}
	}

	return &model.ProfileEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		DocType:        e.DocType,
		Summary:        e.Summary,
		Keywords:       keywords,
		Source:         e.Source,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *ProfileEmbeddingMapper) ToEntities(embeddings []*model.ProfileEmbedding) []*entity.ProfileEmbedding {
	entities := make([]*entity.ProfileEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *ProfileEmbeddingMapper) ToModels(embeddings []*entity.ProfileEmbedding) []*model.ProfileEmbedding {
	models := make([]*model.ProfileEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
