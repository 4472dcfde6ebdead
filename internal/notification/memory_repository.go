package notification

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Notification
}

// NewMemoryRepository constructs an in-memory inbox repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Notification)}
}

func (r *memoryRepository) Save(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[n.ID] = n
	return nil
}

func (r *memoryRepository) ListByRecipient(_ context.Context, recipient string) ([]Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Notification
	for _, n := range r.storage {
		if n.Recipient == recipient {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) MarkRead(_ context.Context, id, recipient string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.storage[id]
	if !ok || n.Recipient != recipient {
		return ErrNotificationNotFound
	}
	n.Read = true
	r.storage[id] = n
	return nil
}
