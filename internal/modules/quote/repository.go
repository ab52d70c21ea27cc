package quote

import (
	"context"
	"sync"
	"time"

	"recharge/internal/types"
)

// Repository persists quotes. Get returns ErrNotFound for unknown ids.
type Repository interface {
	Create(ctx context.Context, q *Quote) error
	Get(ctx context.Context, id types.ID) (*Quote, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// MemoryRepository keeps quotes in process. Used by tests and when no database is configured.
type MemoryRepository struct {
	mu     sync.RWMutex
	quotes map[types.ID]Quote
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{quotes: make(map[types.ID]Quote)}
}

func (r *MemoryRepository) Create(_ context.Context, q *Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quotes[q.ID]; ok {
		return ErrConflict
	}
	r.quotes[q.ID] = *q
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id types.ID) (*Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.quotes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}

func (r *MemoryRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, q := range r.quotes {
		if q.ExpiresAt.Before(now) {
			delete(r.quotes, id)
			n++
		}
	}
	return n, nil
}
