package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/honeynil/kapitalist/internal/models"
	"github.com/honeynil/kapitalist/internal/repository"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer provisions the default categories of newly registered users from
// the users topic.
type Consumer struct {
	reader       *kafka.Reader
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

func NewConsumer(brokers []string, groupID string, categoryRepo repository.CategoryRepository, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    models.TopicUsers,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		categoryRepo: categoryRepo,
		logger:       logger.Named("kafka-consumer"),
	}
}

// Consume blocks until ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopped", zap.String("topic", models.TopicUsers))
				return
			}
			c.logger.Error("failed to read Kafka message", zap.String("topic", models.TopicUsers), zap.Error(err))
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			// TODO: Send to dead-letter queue
			c.logger.Error("failed to handle Kafka message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var event models.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	switch event.Type {
	case models.EventUserRegistered:
		if event.UserID == 0 {
			return fmt.Errorf("user_registered event %s has no user_id", event.ID)
		}
		if err := c.categoryRepo.CreateDefaults(ctx, event.UserID, models.DefaultCategories); err != nil {
			return fmt.Errorf("failed to create default categories for user %d: %w", event.UserID, err)
		}
		c.logger.Info("default categories created", zap.Int64("user_id", event.UserID), zap.String("event_id", event.ID))
	default:
		c.logger.Debug("ignoring event", zap.String("event_type", event.Type), zap.String("event_id", event.ID))
	}
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
