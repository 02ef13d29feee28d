package outbox

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher publishes every event to topic, keyed by aggregate id.
func NewKafkaPublisher(brokers []string, topic string) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, msg Message) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Key),
		Value: msg.Value,
		Time:  msg.Time,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(msg.EventType)},
			{Key: "event-id", Value: []byte(msg.EventID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.EventType, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
