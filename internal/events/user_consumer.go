package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shareit-team/shareit-server/pkg/kafka"
)

// UserCacheEvicter drops a cached user.
type UserCacheEvicter interface {
	Evict(userID int64)
}

// UserEventConsumer keeps the local user cache coherent with changes made by other replicas.
// Every replica joins with its own group id so each one sees every event.
type UserEventConsumer struct {
	consumer *kafka.Consumer
	cache    UserCacheEvicter
	logger   *zap.Logger
}

// NewUserEventConsumer creates a new UserEventConsumer.
func NewUserEventConsumer(
	brokers []string,
	groupID string,
	cache UserCacheEvicter,
	logger *zap.Logger,
) *UserEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicUserEvents, logger)
	return &UserEventConsumer{
		consumer: consumer,
		cache:    cache,
		logger:   logger,
	}
}

// Start begins consuming user events. This blocks until the context is cancelled.
func (c *UserEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *UserEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *UserEventConsumer) handleMessage(_ context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from user topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // malformed messages are not retried
	}

	switch cloudEvent.Type {
	case UserUpdated, UserDeleted:
		var evt UserChangedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse user event data",
				zap.String("type", cloudEvent.Type),
				zap.Error(err),
			)
			return nil
		}
		c.cache.Evict(evt.UserID)
		c.logger.Debug("user cache entry invalidated",
			zap.String("type", cloudEvent.Type),
			zap.Int64("user_id", evt.UserID),
		)
	default:
		c.logger.Debug("ignoring unhandled user event type",
			zap.String("type", cloudEvent.Type),
		)
	}
	return nil
}
