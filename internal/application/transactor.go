package application

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shareit-team/shareit-server/internal/events"
	"github.com/shareit-team/shareit-server/pkg/kafka"
)

// Transactor runs fn inside a single storage transaction. Repositories called with
// the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher publishes CloudEvents. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

func utcNow() time.Time { return time.Now().UTC() }

// emitter publishes domain events after commit. Failures are logged, never returned.
type emitter struct {
	producer EventPublisher
	logger   *zap.Logger
}

func (e emitter) publishEvent(ctx context.Context, topic, eventType string, subject int64, data any) {
	if e.producer == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(events.Source, eventType, data)
	if err != nil {
		e.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent = cloudEvent.WithSubject(strconv.FormatInt(subject, 10))

	if err := e.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		e.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
