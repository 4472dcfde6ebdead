package transfer

import (
	"context"
	"sync"
)

// MemoryRepository collects transfer records in memory for tests.
type MemoryRepository struct {
	mu      sync.Mutex
	records []Transfer
}

// NewMemoryRepository constructs an in-memory transfer repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Save appends one record.
func (r *MemoryRepository) Save(_ context.Context, t Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, t)
	return nil
}

// Records returns a copy of everything saved so far.
func (r *MemoryRepository) Records() []Transfer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Transfer, len(r.records))
	copy(out, r.records)
	return out
}
