package kafka

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaProducer interface {
	Send(ctx context.Context, topic string, key int64, value []byte) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer returns a producer writing to any topic on brokers. The topic
// is chosen per message.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer, logger: logger.Named("kafka-producer")}
}

// Send writes value keyed by key. Messages with the same key land on the same
// partition, so events of one user stay ordered.
func (p *Producer) Send(ctx context.Context, topic string, key int64, value []byte) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(strconv.FormatInt(key, 10)),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to send Kafka message", zap.String("topic", topic), zap.Int64("key", key), zap.Error(err))
		return err
	}
	p.logger.Debug("Kafka message sent", zap.String("topic", topic), zap.Int64("key", key))
	return nil
}

func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Error("failed to close Kafka writer", zap.Error(err))
		return err
	}
	p.logger.Info("Kafka writer closed")
	return nil
}
