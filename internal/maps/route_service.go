package maps

import (
	"context"
	"math"
	"net/http"

	"github.com/cockroachdb/errors"
	"googlemaps.github.io/maps"
)

const SourceGoogle = "google"

// RouteService resolves routes with the Google Maps Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a RouteService. httpClient may be nil.
func NewRouteService(apiKey string, httpClient *http.Client) (*RouteService, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, maps.WithHTTPClient(httpClient))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create maps client")
	}
	return &RouteService{client: client}, nil
}

// EstimateRoute returns the first driving route's distance and duration.
func (s *RouteService) EstimateRoute(ctx context.Context, origin, destination string) (RouteEstimate, error) {
	if err := checkEndpoints(origin, destination); err != nil {
		return RouteEstimate{}, err
	}
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Language:    "en",
		Region:      "lk",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		if isZeroResults(err) {
			return RouteEstimate{}, errors.Wrapf(ErrNoRouteFound, "%s -> %s", origin, destination)
		}
		return RouteEstimate{}, errors.Mark(errors.Wrap(err, "maps directions"), ErrProviderUnavailable)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RouteEstimate{}, errors.Wrapf(ErrNoRouteFound, "%s -> %s", origin, destination)
	}

	var meters int
	var minutes float64
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
		minutes += leg.Duration.Minutes()
	}
	return RouteEstimate{
		DistanceKm:      float64(meters) / 1000,
		DurationMinutes: int(math.Round(minutes)),
		Source:          SourceGoogle,
	}, nil
}

func isZeroResults(err error) bool {
	s := err.Error()
	return containsIgnoreCase(s, "ZERO_RESULTS") || containsIgnoreCase(s, "NOT_FOUND")
}
