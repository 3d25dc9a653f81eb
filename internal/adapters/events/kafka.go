package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
	portsevents "github.com/SscSPs/cash_memo_ledger/internal/core/ports/events"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes ledger events to a single topic, keyed by memo date so
// events of one day stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
		topic: topic,
	}
}

var _ portsevents.Publisher = (*KafkaPublisher)(nil)

// Publish encodes event as JSON and writes it synchronously.
func (p *KafkaPublisher) Publish(ctx context.Context, event portsevents.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Date),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return apperrors.Upstream(fmt.Sprintf("failed to publish %s to %s", event.Type, p.topic), err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
