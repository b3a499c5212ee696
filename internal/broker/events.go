package broker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RooJenkins/UPLO5/internal/models"
)

// EventPublisher publishes catalog lifecycle events. A nil publisher is
// valid and drops everything, so callers need no kafka-enabled check.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishScrapeRunCompleted announces a committed scrape run.
func (p *EventPublisher) PublishScrapeRunCompleted(ctx context.Context, runID, source string, productCount int, catalogVersion string) error {
	if p == nil || p.producer == nil {
		return nil
	}

	event := &models.ScrapeRunCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeScrapeRunCompleted,
			Timestamp: time.Now(),
		},
		RunID:          runID,
		Source:         source,
		ProductCount:   productCount,
		CatalogVersion: catalogVersion,
	}
	return p.producer.PublishEvent(ctx, runID, event)
}

// PublishProductUpserted announces one created or refreshed product.
func (p *EventPublisher) PublishProductUpserted(ctx context.Context, runID string, productID int64, storeName, externalID string) error {
	if p == nil || p.producer == nil {
		return nil
	}

	event := &models.ProductUpsertedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeProductUpserted,
			Timestamp: time.Now(),
		},
		RunID:      runID,
		ProductID:  productID,
		StoreName:  storeName,
		ExternalID: externalID,
	}
	return p.producer.PublishEvent(ctx, runID, event)
}
