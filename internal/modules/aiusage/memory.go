package aiusage

import (
	"context"
	"sync"
	"time"
)

type usage struct {
	remaining int
	month     string
}

// MemoryStore mirrors Store semantics in process. Used when no database is configured.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]usage
	now   func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{users: make(map[string]usage), now: now}
}

func (m *MemoryStore) UseToken(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	month := monthKey(m.now())
	u, ok := m.users[uid]
	if !ok {
		return ErrInsufficientTokens
	}
	if u.month < month {
		u = usage{remaining: DefaultTokens, month: month}
	}
	if u.remaining <= 0 {
		return ErrInsufficientTokens
	}
	u.remaining--
	m.users[uid] = u
	return nil
}

func (m *MemoryStore) EnsureUser(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[uid]; !ok {
		m.users[uid] = usage{remaining: DefaultTokens, month: monthKey(m.now())}
	}
	return nil
}

// Remaining reports the tokens left for uid in its current month.
func (m *MemoryStore) Remaining(uid string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[uid].remaining
}
