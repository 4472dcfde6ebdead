package exchange

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RatesChannel carries exchange-rate updates from the rate generator.
const RatesChannel = "bank.exchange.rates"

// RateUpdate is the wire shape of one rate tick.
type RateUpdate struct {
	Currency string          `json:"currency"`
	BuyRate  decimal.Decimal `json:"buyRate"`
	SellRate decimal.Decimal `json:"sellRate"`
}

// RatesConsumer applies rate ticks to the rate table with at-most-once
// semantics: it reads from the stream tail, never joins a consumer group and
// never retries. A missed or failed tick is acceptable because the next one
// supersedes it; a stale table is better than replaying old rates.
type RatesConsumer struct {
	rdb     *redis.Client
	service *Service
	logger  *slog.Logger

	readBlock time.Duration
}

// NewRatesConsumer builds the rate-update consumer.
func NewRatesConsumer(rdb *redis.Client, service *Service, logger *slog.Logger) *RatesConsumer {
	return &RatesConsumer{rdb: rdb, service: service, logger: logger, readBlock: time.Second}
}

// Run consumes rate updates until the context is cancelled. On restart it
// starts from the current tail, skipping anything published while down.
func (c *RatesConsumer) Run(ctx context.Context) {
	lastID := "$"
	for ctx.Err() == nil {
		res, err := c.rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{RatesChannel, lastID},
			Count:   32,
			Block:   c.readBlock,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			c.logger.Error("read rates stream", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		for _, s := range res {
			for _, m := range s.Messages {
				lastID = m.ID
				c.apply(ctx, m)
			}
		}
	}
}

func (c *RatesConsumer) apply(ctx context.Context, m redis.XMessage) {
	payload, _ := m.Values["payload"].(string)

	var update RateUpdate
	if err := json.Unmarshal([]byte(payload), &update); err != nil {
		c.logger.Warn("skip malformed rate update", "entry_id", m.ID, "error", err)
		return
	}
	if update.Currency == "" {
		c.logger.Warn("skip rate update without currency", "entry_id", m.ID)
		return
	}

	err := c.service.UpdateRate(ctx, Rate{
		Currency: update.Currency,
		Buy:      update.BuyRate,
		Sell:     update.SellRate,
	})
	if err != nil {
		c.logger.Warn("skip failed rate update", "currency", update.Currency, "error", err)
	}
}
