package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/honeynil/kapitalist/internal/infrastructure/kafka"
	"github.com/honeynil/kapitalist/internal/models"
	"go.uber.org/zap"
)

const (
	publishRetries = 3
	publishTimeout = 5 * time.Second
)

// EventPublisher sends domain events to Kafka in the background so a slow
// broker never blocks a request.
type EventPublisher struct {
	producer kafka.KafkaProducer
	logger   *zap.Logger
	backoff  time.Duration
	wg       sync.WaitGroup
}

func NewEventPublisher(producer kafka.KafkaProducer, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		logger:   logger.Named("publisher"),
		backoff:  time.Second,
	}
}

// Publish stamps event with a fresh id and creation time and sends it keyed
// by the owning user.
func (p *EventPublisher) Publish(topic string, event models.Event) {
	if p == nil || p.producer == nil {
		return
	}
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event", zap.String("event_type", event.Type), zap.Error(err))
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		var sendErr error
		for i := 0; i < publishRetries; i++ {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			sendErr = p.producer.Send(ctx, topic, event.UserID, payload)
			cancel()
			if sendErr == nil {
				p.logger.Info("event sent",
					zap.String("event_type", event.Type),
					zap.String("event_id", event.ID),
					zap.Int64("user_id", event.UserID))
				return
			}
			time.Sleep(p.backoff * time.Duration(i+1))
		}
		p.logger.Error("failed to send event after retries",
			zap.String("event_type", event.Type),
			zap.String("event_id", event.ID),
			zap.Error(sendErr))
	}()
}

// Wait blocks until every in-flight event is sent or has given up.
func (p *EventPublisher) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}
