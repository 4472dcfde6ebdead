package exchange

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/nova-bank/nova_bank/internal/logging"
)

func TestRatesConsumerAppliesTick(t *testing.T) {
	repo := NewMemoryRepository()
	consumer := NewRatesConsumer(nil, NewService(repo, logging.Discard()), logging.Discard())
	ctx := context.Background()

	consumer.apply(ctx, redis.XMessage{
		ID:     "1-0",
		Values: map[string]any{"payload": `{"currency": "USD", "buyRate": "75.00", "sellRate": "77.50"}`},
	})

	rate, err := repo.Find(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, "75", rate.Buy.String())
	require.Equal(t, "77.5", rate.Sell.String())
	require.False(t, rate.UpdatedAt.IsZero())
}

func TestRatesConsumerSkipsMalformedTick(t *testing.T) {
	repo := NewMemoryRepository()
	consumer := NewRatesConsumer(nil, NewService(repo, logging.Discard()), logging.Discard())
	ctx := context.Background()

	consumer.apply(ctx, redis.XMessage{ID: "1-0", Values: map[string]any{"payload": "not json"}})
	consumer.apply(ctx, redis.XMessage{ID: "2-0", Values: map[string]any{"payload": `{"buyRate": "1"}`}})

	rates, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, rates)
}
