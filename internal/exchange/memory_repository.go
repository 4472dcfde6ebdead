package exchange

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	rates map[string]Rate
}

// NewMemoryRepository constructs an in-memory rate repository for tests and
// broker-less development runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{rates: make(map[string]Rate)}
}

func (r *memoryRepository) Upsert(_ context.Context, rate Rate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates[rate.Currency] = rate
	return nil
}

func (r *memoryRepository) Find(_ context.Context, currency string) (Rate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rate, ok := r.rates[currency]
	if !ok {
		return Rate{}, ErrRateNotFound
	}
	return rate, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Rate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rate, 0, len(r.rates))
	for _, rate := range r.rates {
		out = append(out, rate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}
