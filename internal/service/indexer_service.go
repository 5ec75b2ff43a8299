package service

import (
	"context"
	"encoding/json"
	"time"

	"digital-twin-be/internal/dto"
	"digital-twin-be/internal/entity"
	"digital-twin-be/internal/pkg/logger"
	"digital-twin-be/internal/repository/unitofwork"
	"digital-twin-be/pkg/embedding"
	"digital-twin-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IIndexerService interface {
	Consume(ctx context.Context) error
}

type indexerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
	chunkSize         int
	chunkOverlap      int
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
	chunkSize int,
	chunkOverlap int,
) IIndexerService {
	if chunkSize <= 0 {
		chunkSize = 1500
	}
	if chunkOverlap < 0 {
		chunkOverlap = 200
	}
	return &indexerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
	}
}

func (is *indexerService) Consume(ctx context.Context) error {
	messages, err := is.pubSub.Subscribe(ctx, is.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			is.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (is *indexerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishProfileRecordMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		is.logger.Error("indexer", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if payload.Source == "" || payload.Content == "" {
		is.logger.Warn("indexer", "skipping record without source or content", nil)
		msg.Ack()
		return
	}

	is.logger.Info("indexer", "processing profile record", map[string]interface{}{
		"source":   payload.Source,
		"doc_type": payload.DocType,
		"length":   len(payload.Content),
	})

	chunks := utils.SplitText(payload.Content, is.chunkSize, is.chunkOverlap)

	var newEmbeddings []*entity.ProfileEmbedding
	for i, chunk := range chunks {
		res, err := is.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			is.logger.Error("indexer", "chunk embedding failed", map[string]interface{}{
				"source": payload.Source,
				"chunk":  i,
				"error":  err.Error(),
			})
			msg.Nack() // Retriable
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.ProfileEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			DocType:        payload.DocType,
			Summary:        payload.Summary,
			Keywords:       payload.Keywords,
			Source:         payload.Source,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	// Delete + insert in one transaction so a re-ingest of the same source
	// converges instead of duplicating rows
	uow := is.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		is.logger.Error("indexer", "failed to begin transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ProfileEmbeddingRepository().DeleteBySource(ctx, payload.Source); err != nil {
		is.logger.Error("indexer", "failed to delete stale embeddings", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.ProfileEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
		is.logger.Error("indexer", "failed to create embeddings", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		is.logger.Error("indexer", "failed to commit transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	is.logger.Info("indexer", "profile record indexed", map[string]interface{}{
		"source": payload.Source,
		"chunks": len(newEmbeddings),
	})
	msg.Ack()
}
