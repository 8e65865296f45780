package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// EntryApprovedEvent is emitted when a journal entry is approved.
type EntryApprovedEvent struct {
	EntryID        string    `json:"entryId"`
	OrganizationID string    `json:"organizationId"`
	EntryNumber    string    `json:"entryNumber"`
	PeriodID       string    `json:"periodId"`
	ApprovedBy     string    `json:"approvedBy"`
	ApprovedAt     time.Time `json:"approvedAt"`
}

// Publisher emits domain events to downstream consumers.
type Publisher interface {
	PublishEntryApproved(ctx context.Context, event EntryApprovedEvent) error
	Close() error
}

// KafkaPublisher publishes events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher writing to the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishEntryApproved writes the event keyed by organization so consumers see
// entries of one organization in order.
func (p *KafkaPublisher) PublishEntryApproved(ctx context.Context, event EntryApprovedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrganizationID),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards all events. Used when no brokers are configured.
type NoopPublisher struct{}

var _ Publisher = (*NoopPublisher)(nil)

func (NoopPublisher) PublishEntryApproved(ctx context.Context, event EntryApprovedEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
