package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/nova-bank/nova_bank/internal/config"
	"github.com/nova-bank/nova_bank/internal/stream"
)

// ConsumerGroup is the pipeline's consumer group on the notifications channels.
const ConsumerGroup = "notifications-consumer-group"

// NewPipeline wires the retrying consumer that drains the notifications
// channel and its retry channels into the inbox. Exhausted events end up on
// the dead-letter channel for the centralized DLT handler.
func NewPipeline(rdb *redis.Client, service *Service, policy config.RetryPolicy, consumerName string, logger *slog.Logger) *stream.Consumer {
	handler := func(ctx context.Context, env stream.Envelope) error {
		var event Event
		if err := json.Unmarshal(env.Payload, &event); err != nil {
			return fmt.Errorf("decode notification event: %w", err)
		}
		return service.Deliver(ctx, event)
	}
	return stream.NewConsumer(rdb, Channel, ConsumerGroup, consumerName, policy, handler, logger)
}
