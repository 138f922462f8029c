package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rainier-guide-be/internal/dto"
	"rainier-guide-be/internal/entity"
	"rainier-guide-be/internal/pkg/logger"
	"rainier-guide-be/internal/repository/unitofwork"
	"rainier-guide-be/pkg/embedding"
	"rainier-guide-be/pkg/events"
	"rainier-guide-be/pkg/metrics"
	"rainier-guide-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const consumerModule = "INGEST"

var errEmptyDocument = errors.New("document has no content")

type IConsumerService interface {
	Consume(ctx context.Context) error
	Ingest(ctx context.Context, doc dto.IngestPassageRequest) (int, error)
}

type ChunkConfig struct {
	Size    int
	Overlap int
}

type consumerService struct {
	subscriber        message.Subscriber
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    events.Publisher
	chunks            ChunkConfig
	logger            logger.ILogger
}

// NewConsumerService builds the ingestion worker. eventPublisher may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher events.Publisher,
	chunks ChunkConfig,
	log logger.ILogger,
) IConsumerService {
	if chunks.Size <= 0 {
		chunks.Size = 1000
	}
	return &consumerService{
		subscriber:        subscriber,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		chunks:            chunks,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var doc dto.IngestPassageRequest
	if err := json.Unmarshal(msg.Payload, &doc); err != nil {
		cs.logger.Error(consumerModule, "Failed to unmarshal message", map[string]interface{}{"error": err.Error(), "uuid": msg.UUID})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if _, err := cs.Ingest(ctx, doc); err != nil {
		if errors.Is(err, errEmptyDocument) {
			cs.logger.Warn(consumerModule, "Skipping empty document", map[string]interface{}{"source": doc.Source})
			msg.Ack()
			return
		}
		cs.logger.Error(consumerModule, "Failed to ingest document", map[string]interface{}{"error": err.Error(), "source": doc.Source})
		msg.Nack()
		return
	}
	msg.Ack()
}

// Ingest chunks, embeds and stores one document, replacing any earlier chunks of the same source.
func (cs *consumerService) Ingest(ctx context.Context, doc dto.IngestPassageRequest) (int, error) {
	chunks := utils.SplitText(doc.Content, cs.chunks.Size, cs.chunks.Overlap)
	if len(chunks) == 0 {
		return 0, errEmptyDocument
	}
	source := strings.TrimSpace(doc.Source)
	cs.logger.Info(consumerModule, fmt.Sprintf("Embedding %d chunks", len(chunks)), map[string]interface{}{"source": source})

	now := time.Now()
	passages := make([]*entity.ParkPassage, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(ctx, chunk, embedding.TaskRetrievalDocument)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		passages = append(passages, &entity.ParkPassage{
			Id:         uuid.New(),
			Content:    chunk,
			Title:      doc.Title,
			Source:     source,
			URL:        doc.URL,
			ChunkIndex: i,
			Metadata:   doc.Metadata,
			Embedding:  res.Embedding.Values,
			CreatedAt:  now,
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	removed, err := uow.ParkPassageRepository().DeleteBySource(ctx, source)
	if err != nil {
		_ = uow.Rollback()
		return 0, err
	}
	if err := uow.ParkPassageRepository().CreateBulk(ctx, passages); err != nil {
		_ = uow.Rollback()
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	metrics.PassagesIngestedTotal.Add(float64(len(passages)))
	cs.logger.Info(consumerModule, "Document ingested", map[string]interface{}{
		"source":   source,
		"chunks":   len(passages),
		"replaced": removed,
	})

	if cs.eventPublisher != nil {
		event := events.PassagesIngested{Source: source, Title: doc.Title, Chunks: len(passages), OccurredAt: now}
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			cs.logger.Warn(consumerModule, "Failed to publish ingest event", map[string]interface{}{"error": err.Error()})
		}
	}
	return len(passages), nil
}
