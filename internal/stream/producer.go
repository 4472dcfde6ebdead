package stream

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Producer appends envelopes to Redis streams. A stream is an ordered log, so
// everything published to one channel is consumed in publish order; the
// envelope key records which recipient that ordering is on behalf of.
type Producer struct {
	rdb *redis.Client
}

// NewProducer builds a stream producer.
func NewProducer(rdb *redis.Client) *Producer {
	return &Producer{rdb: rdb}
}

// Publish appends the envelope to the named channel. The message id is
// assigned on first publish and survives retry hops; Channel is stamped with
// the first channel the envelope was published to.
func (p *Producer) Publish(ctx context.Context, channel string, env Envelope) error {
	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	if env.Channel == "" {
		env.Channel = channel
	}
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: channel,
		Values: env.values(),
	}).Err()
}
