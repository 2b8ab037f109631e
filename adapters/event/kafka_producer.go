package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TopicUserEvents = "user.events"

	UserEventTypeRegistered     = "user.registered"
	UserEventTypeProfileUpdated = "user.profile_updated"
)

type UserEventPayload struct {
	EventType  string    `json:"event_type"`
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserEventPublisher is what the usecases depend on; the Kafka client
// below is the production implementation.
type UserEventPublisher interface {
	PublishUserEvent(ctx context.Context, payload UserEventPayload) error
}

type KafkaProducerClient struct {
	UserEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(brokers []string) (*KafkaProducerClient, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'user.events'
	userWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicUserEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{
		UserEventsWriter: userWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishUserEvent(ctx context.Context, payload UserEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal user event: %w", err)
	}

	return c.UserEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.UserID.String()),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.UserEventsWriter != nil {
		c.UserEventsWriter.Close()
	}
}
