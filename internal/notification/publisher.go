package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nova-bank/nova_bank/internal/stream"
)

// Publisher hands notification events to the delivery pipeline. Publishing is
// fire-and-forget for the caller: once handed over, the pipeline owns the
// event, and a publish failure never unwinds the business operation that
// produced it.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// StreamPublisher publishes events onto the notifications stream.
type StreamPublisher struct {
	producer *stream.Producer
	logger   *slog.Logger
}

// NewStreamPublisher builds the production publisher.
func NewStreamPublisher(producer *stream.Producer, logger *slog.Logger) *StreamPublisher {
	return &StreamPublisher{producer: producer, logger: logger}
}

// Publish appends the event to the notifications channel keyed by recipient.
func (p *StreamPublisher) Publish(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("encode notification", "recipient", event.Recipient, "error", err)
		return
	}
	env := stream.Envelope{Key: event.Recipient, Payload: payload}
	if err := p.producer.Publish(ctx, Channel, env); err != nil {
		p.logger.Error("publish notification", "recipient", event.Recipient, "error", err)
	}
}
