package maps

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedRouteEstimator(t *testing.T) {
	addr := os.Getenv("RECHARGE_REDIS_ADDR")
	if addr == "" {
		t.Skip("RECHARGE_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	ctx := context.Background()
	dest := fmt.Sprintf("Kandy %d", time.Now().UnixNano())
	defer rdb.Del(ctx, routeKey("CMB", dest))

	inner := &stubEstimator{est: RouteEstimate{DistanceKm: 120, DurationMinutes: 180, Source: SourceTable}}
	c := NewCachedRouteEstimator(inner, rdb, time.Minute, testLogger())

	first, err := c.EstimateRoute(ctx, "CMB", dest)
	require.NoError(t, err)
	second, err := c.EstimateRoute(ctx, "cmb", dest)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedRouteEstimator_RedisDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()

	inner := &stubEstimator{est: RouteEstimate{DistanceKm: 10, Source: SourceTable}}
	c := NewCachedRouteEstimator(inner, rdb, time.Minute, testLogger())

	got, err := c.EstimateRoute(context.Background(), "CMB", "Negombo")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.DistanceKm)
	assert.Equal(t, 1, inner.calls)
}
