package maps

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// FallbackRouteEstimator asks each estimator in turn and returns the first answer.
type FallbackRouteEstimator struct {
	estimators []RouteEstimator
	log        zerolog.Logger
}

func NewFallbackRouteEstimator(log zerolog.Logger, estimators ...RouteEstimator) *FallbackRouteEstimator {
	return &FallbackRouteEstimator{estimators: estimators, log: log}
}

// EstimateRoute returns ErrNoRouteFound if every estimator reported no route,
// otherwise the last provider error.
func (f *FallbackRouteEstimator) EstimateRoute(ctx context.Context, origin, destination string) (RouteEstimate, error) {
	if err := checkEndpoints(origin, destination); err != nil {
		return RouteEstimate{}, err
	}
	var lastErr error
	allNoRoute := true
	for i, e := range f.estimators {
		est, err := e.EstimateRoute(ctx, origin, destination)
		if err == nil {
			return est, nil
		}
		if ctx.Err() != nil {
			return RouteEstimate{}, ctx.Err()
		}
		if !errors.Is(err, ErrNoRouteFound) {
			allNoRoute = false
		}
		f.log.Debug().Err(err).Int("estimator", i).Str("origin", origin).Str("destination", destination).Msg("route estimator failed, trying next")
		lastErr = err
	}
	if lastErr == nil || allNoRoute {
		return RouteEstimate{}, errors.Wrapf(ErrNoRouteFound, "%s -> %s", origin, destination)
	}
	return RouteEstimate{}, lastErr
}
