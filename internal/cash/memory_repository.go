package cash

import (
	"context"
	"sync"
)

// MemoryRepository collects audit records in memory for tests.
type MemoryRepository struct {
	mu      sync.Mutex
	records []Transaction
}

// NewMemoryRepository constructs an in-memory transaction repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Save appends one record.
func (r *MemoryRepository) Save(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, tx)
	return nil
}

// Records returns a copy of everything saved so far.
func (r *MemoryRepository) Records() []Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Transaction, len(r.records))
	copy(out, r.records)
	return out
}
