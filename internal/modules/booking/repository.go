package booking

import (
	"context"
	"sort"
	"strings"
	"sync"

	"recharge/internal/types"
)

// Repository persists bookings. Lookups return ErrNotFound for unknown keys.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id types.ID) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	// ListByEmail returns the customer's bookings, newest first.
	ListByEmail(ctx context.Context, email string) ([]Booking, error)
	// List returns bookings newest first, filtered by status when it is non-empty.
	List(ctx context.Context, status Status, limit int) ([]Booking, error)
	// Update loads the booking, applies fn and saves the result atomically.
	Update(ctx context.Context, id types.ID, fn func(*Booking) error) (*Booking, error)
}

// MemoryRepository keeps bookings in process, for tests and runs without Firebase.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings map[types.ID]Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookings: make(map[types.ID]Booking)}
}

func (r *MemoryRepository) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; ok {
		return ErrConflict
	}
	for _, existing := range r.bookings {
		if existing.Reference == b.Reference {
			return ErrConflict
		}
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id types.ID) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *MemoryRepository) GetByReference(_ context.Context, reference string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.Reference == reference {
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ListByEmail(_ context.Context, email string) ([]Booking, error) {
	return r.filter(func(b Booking) bool { return strings.EqualFold(b.Customer.Email, email) }, 0), nil
}

func (r *MemoryRepository) List(_ context.Context, status Status, limit int) ([]Booking, error) {
	return r.filter(func(b Booking) bool { return status == "" || b.Status == status }, limit), nil
}

func (r *MemoryRepository) Update(_ context.Context, id types.ID, fn func(*Booking) error) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&b); err != nil {
		return nil, err
	}
	r.bookings[id] = b
	return &b, nil
}

func (r *MemoryRepository) filter(keep func(Booking) bool, limit int) []Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Booking, 0)
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
