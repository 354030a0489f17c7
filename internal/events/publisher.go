package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const eventSource = "survey-service"

// Publisher publishes domain events.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, data interface{}) error
	Close() error
}

// WatermillPublisher wraps a Watermill publisher with the service's event
// envelope.
type WatermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewGoChannelPubSub builds the in-process pub/sub both the publisher and
// the log consumer attach to.
func NewGoChannelPubSub(logger *slog.Logger) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
}

func NewPublisher(publisher message.Publisher, logger *slog.Logger) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *WatermillPublisher) Publish(_ context.Context, eventType EventType, data interface{}) error {
	envelope := Envelope{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Data:      data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", eventType, err)
	}

	msg := message.NewMessage(envelope.ID, payload)
	msg.Metadata.Set("event_type", string(eventType))
	msg.Metadata.Set("source", eventSource)

	if err := p.publisher.Publish(string(eventType), msg); err != nil {
		p.logger.Error("failed to publish event", "event_type", eventType, "error", err)
		return fmt.Errorf("publish event %s: %w", eventType, err)
	}
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

// NopPublisher discards events. Used when eventing is not wired, e.g. in
// tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EventType, interface{}) error { return nil }

func (NopPublisher) Close() error { return nil }

// RunLogConsumer subscribes to the given topics and logs each event until
// the context is cancelled.
func RunLogConsumer(ctx context.Context, subscriber message.Subscriber, logger *slog.Logger, topics ...EventType) error {
	for _, topic := range topics {
		messages, err := subscriber.Subscribe(ctx, string(topic))
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		go func(topic EventType, messages <-chan *message.Message) {
			for msg := range messages {
				logger.Info("domain event",
					"topic", topic,
					"event_id", msg.UUID,
					"payload", string(msg.Payload))
				msg.Ack()
			}
		}(topic, messages)
	}
	return nil
}
