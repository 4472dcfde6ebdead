package stream

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DLTConsumer is the single centralized handler for dead-lettered envelopes.
// It logs each one with enough structure for an external monitoring system to
// alert on and attempts no recovery.
type DLTConsumer struct {
	rdb    *redis.Client
	logger *slog.Logger
	group  string
	name   string

	readBlock time.Duration
}

// NewDLTConsumer builds the dead-letter handler.
func NewDLTConsumer(rdb *redis.Client, group, name string, logger *slog.Logger) *DLTConsumer {
	return &DLTConsumer{rdb: rdb, logger: logger, group: group, name: name, readBlock: time.Second}
}

// Run consumes the given dead-letter channels until the context is cancelled.
func (d *DLTConsumer) Run(ctx context.Context, channels ...string) {
	for _, channel := range channels {
		if err := d.rdb.XGroupCreateMkStream(ctx, channel, d.group, "0").Err(); err != nil && !isBusyGroup(err) {
			d.logger.Error("create dlt group", "channel", channel, "error", err)
			return
		}
	}

	streams := make([]string, 0, len(channels)*2)
	streams = append(streams, channels...)
	for range channels {
		streams = append(streams, ">")
	}

	for ctx.Err() == nil {
		res, err := d.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    d.group,
			Consumer: d.name,
			Streams:  streams,
			Count:    16,
			Block:    d.readBlock,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			d.logger.Error("read dlt stream", "error", err)
			if !sleepCtx(ctx, time.Second) {
				return
			}
			continue
		}

		for _, s := range res {
			for _, m := range s.Messages {
				d.process(ctx, s.Stream, m)
			}
		}
	}
}

// ProcessPending drains queued dead letters once, for tests and shutdown.
func (d *DLTConsumer) ProcessPending(ctx context.Context, channels ...string) {
	for _, channel := range channels {
		if err := d.rdb.XGroupCreateMkStream(ctx, channel, d.group, "0").Err(); err != nil && !isBusyGroup(err) {
			continue
		}
		res, err := d.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    d.group,
			Consumer: d.name,
			Streams:  []string{channel, ">"},
			Count:    64,
		}).Result()
		if err != nil {
			continue
		}
		for _, s := range res {
			for _, m := range s.Messages {
				d.process(ctx, s.Stream, m)
			}
		}
	}
}

func (d *DLTConsumer) process(ctx context.Context, channel string, m redis.XMessage) {
	env := envelopeFromMessage(m)
	d.logger.Warn("dlt message",
		"dlt_channel", channel,
		"origin_channel", env.Channel,
		"entry_id", m.ID,
		"message_id", env.ID,
		"key", env.Key,
		"attempts", env.Attempt,
		"payload", string(env.Payload),
		"error", env.Error,
	)
	if err := d.rdb.XAck(ctx, channel, d.group, m.ID).Err(); err != nil {
		d.logger.Error("ack dlt message", "channel", channel, "id", m.ID, "error", err)
	}
}
