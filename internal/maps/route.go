// Package maps resolves transfer routes and searchable places.
package maps

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrNoRouteFound        = errors.New("no route found")
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	ErrEmptyLocation       = errors.New("origin and destination are required")
)

// RouteEstimate is what pricing needs from a route.
type RouteEstimate struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
	Source          string  `json:"source"`
}

// RouteEstimator resolves driving distance and time between two place descriptors.
type RouteEstimator interface {
	EstimateRoute(ctx context.Context, origin, destination string) (RouteEstimate, error)
}

func checkEndpoints(origin, destination string) error {
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return ErrEmptyLocation
	}
	return nil
}

// slug lower-cases s and joins its words with dashes: "Nuwara Eliya" -> "nuwara-eliya".
func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
