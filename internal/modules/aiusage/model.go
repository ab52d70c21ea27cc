package aiusage

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrInsufficientTokens is returned when a user has no tokens remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of tokens granted per month.
const DefaultTokens = 100

// Repository is implemented by Store (Postgres) and MemoryStore.
type Repository interface {
	UseToken(ctx context.Context, uid string) error
	EnsureUser(ctx context.Context, uid string) error
}

// monthKey is the quota period a moment falls into, e.g. "2026-05".
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
