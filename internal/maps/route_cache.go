package maps

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const DefaultRouteCacheTTL = 24 * time.Hour

// CachedRouteEstimator memoises another estimator's answers in Redis.
// Redis failures are logged and fall through to the wrapped estimator.
type CachedRouteEstimator struct {
	next  RouteEstimator
	redis *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

func NewCachedRouteEstimator(next RouteEstimator, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedRouteEstimator {
	if ttl <= 0 {
		ttl = DefaultRouteCacheTTL
	}
	return &CachedRouteEstimator{next: next, redis: rdb, ttl: ttl, log: log}
}

func routeKey(origin, destination string) string {
	return "route:" + slug(origin) + "|" + slug(destination)
}

func (c *CachedRouteEstimator) EstimateRoute(ctx context.Context, origin, destination string) (RouteEstimate, error) {
	if err := checkEndpoints(origin, destination); err != nil {
		return RouteEstimate{}, err
	}
	key := routeKey(origin, destination)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var est RouteEstimate
		if jerr := json.Unmarshal(raw, &est); jerr == nil {
			return est, nil
		}
		c.log.Warn().Str("key", key).Msg("discarding unreadable cached route")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("route cache read failed")
	}

	est, err := c.next.EstimateRoute(ctx, origin, destination)
	if err != nil {
		return RouteEstimate{}, err
	}
	if b, jerr := json.Marshal(est); jerr == nil {
		if serr := c.redis.Set(ctx, key, b, c.ttl).Err(); serr != nil {
			c.log.Warn().Err(serr).Str("key", key).Msg("route cache write failed")
		}
	}
	return est, nil
}
