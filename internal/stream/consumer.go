package stream

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/redis/go-redis/v9"

	"github.com/nova-bank/nova_bank/internal/config"
)

// Handler processes one delivered envelope. Returning an error schedules the
// envelope for the next retry channel (or the DLT after the final attempt).
type Handler func(ctx context.Context, env Envelope) error

// Consumer drains a base channel and its derived retry channels through a
// consumer group. Delivery is at-least-once: an entry is acked only after the
// handler succeeded or the envelope was republished to its next channel, so a
// crash in between redelivers rather than loses.
type Consumer struct {
	rdb      *redis.Client
	producer *Producer
	logger   *slog.Logger
	base     string
	group    string
	name     string
	policy   config.RetryPolicy
	handler  Handler

	readBlock time.Duration
}

// NewConsumer builds a retrying consumer for the base channel.
func NewConsumer(rdb *redis.Client, base, group, name string, policy config.RetryPolicy, handler Handler, logger *slog.Logger) *Consumer {
	return &Consumer{
		rdb:       rdb,
		producer:  NewProducer(rdb),
		logger:    logger,
		base:      base,
		group:     group,
		name:      name,
		policy:    policy,
		handler:   handler,
		readBlock: time.Second,
	}
}

// Run consumes until the context is cancelled. Each channel gets its own
// goroutine so a backoff sleep on one retry channel never stalls the others.
func (c *Consumer) Run(ctx context.Context) {
	channels := append([]string{c.base}, RetryChannels(c.base, c.policy.MaxAttempts)...)

	delays := &backoff.Backoff{
		Min:    c.policy.InitialInterval,
		Max:    c.policy.MaxInterval,
		Factor: c.policy.Multiplier,
	}

	var wg sync.WaitGroup
	for i, channel := range channels {
		var delay time.Duration
		if i > 0 {
			delay = delays.ForAttempt(float64(i - 1))
		}
		wg.Add(1)
		go func(channel string, delay time.Duration) {
			defer wg.Done()
			c.consumeChannel(ctx, channel, delay)
		}(channel, delay)
	}
	wg.Wait()
}

func (c *Consumer) consumeChannel(ctx context.Context, channel string, delay time.Duration) {
	if err := c.rdb.XGroupCreateMkStream(ctx, channel, c.group, "0").Err(); err != nil && !isBusyGroup(err) {
		c.logger.Error("create consumer group", "channel", channel, "group", c.group, "error", err)
		return
	}

	for ctx.Err() == nil {
		res, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{channel, ">"},
			Count:    16,
			Block:    c.readBlock,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			c.logger.Error("read stream", "channel", channel, "error", err)
			if !sleepCtx(ctx, time.Second) {
				return
			}
			continue
		}

		for _, s := range res {
			for _, m := range s.Messages {
				// Retry channels deliver after the backoff for their
				// attempt number; the sleep is cooperative and only
				// delays this channel.
				if delay > 0 && !sleepCtx(ctx, delay) {
					return
				}
				c.dispatch(ctx, channel, m)
			}
		}
	}
}

// ProcessPending drains whatever is currently queued on every channel exactly
// once, without backoff sleeps. It exists for tests and for draining on
// shutdown.
func (c *Consumer) ProcessPending(ctx context.Context) {
	channels := append([]string{c.base}, RetryChannels(c.base, c.policy.MaxAttempts)...)
	for _, channel := range channels {
		if err := c.rdb.XGroupCreateMkStream(ctx, channel, c.group, "0").Err(); err != nil && !isBusyGroup(err) {
			continue
		}
		for {
			res, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    c.group,
				Consumer: c.name,
				Streams:  []string{channel, ">"},
				Count:    16,
			}).Result()
			if err != nil || len(res) == 0 {
				break
			}
			empty := true
			for _, s := range res {
				for _, m := range s.Messages {
					empty = false
					c.dispatch(ctx, channel, m)
				}
			}
			if empty {
				break
			}
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, channel string, m redis.XMessage) {
	env := envelopeFromMessage(m)

	if err := c.handler(ctx, env); err != nil {
		next := NextChannel(c.base, env.Attempt, c.policy.MaxAttempts)
		retry := env
		retry.Attempt++
		retry.Error = err.Error()

		if pubErr := c.producer.Publish(ctx, next, retry); pubErr != nil {
			// Leave the entry pending; the group will redeliver it.
			c.logger.Error("route failed message", "channel", channel, "next", next, "error", pubErr)
			return
		}
		c.logger.Warn("delivery failed, rerouted",
			"channel", channel, "next", next, "key", env.Key, "attempt", env.Attempt, "error", err)
	}

	if err := c.rdb.XAck(ctx, channel, c.group, m.ID).Err(); err != nil {
		c.logger.Error("ack message", "channel", channel, "id", m.ID, "error", err)
	}
}

func isBusyGroup(err error) bool {
	return err != nil && strings.Contains(err.Error(), "BUSYGROUP")
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
