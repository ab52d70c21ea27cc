package maps

import (
	"context"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	SourceTable = "table"

	// AverageSpeedKmh is used to derive duration for table routes.
	AverageSpeedKmh = 40.0
)

// airportDistancesKm are road distances from Bandaranaike International Airport (CMB).
var airportDistancesKm = map[string]float64{
	"colombo":      35,
	"negombo":      10,
	"kandy":        120,
	"galle":        150,
	"bentota":      95,
	"hikkaduwa":    120,
	"mirissa":      165,
	"tangalle":     210,
	"ella":         250,
	"nuwara-eliya": 180,
	"sigiriya":     175,
	"dambulla":     155,
	"polonnaruwa":  200,
	"anuradhapura": 195,
	"yala":         280,
	"udawalawe":    195,
	"arugam-bay":   320,
	"trincomalee":  275,
	"jaffna":       400,
	"hambantota":   260,
	"kalpitiya":    130,
	"pasikuda":     310,
}

// RouteTable answers routes between CMB airport and the destinations it knows.
// It is the offline fallback when no maps key is configured or Google fails.
type RouteTable struct {
	distances map[string]float64
}

func NewRouteTable() *RouteTable {
	return &RouteTable{distances: airportDistancesKm}
}

// EstimateRoute needs one endpoint to be CMB; the other is looked up by slug,
// first word of the slug, or the area of a known destination.
func (t *RouteTable) EstimateRoute(_ context.Context, origin, destination string) (RouteEstimate, error) {
	if err := checkEndpoints(origin, destination); err != nil {
		return RouteEstimate{}, err
	}
	var other string
	switch {
	case isMainAirport(origin):
		other = destination
	case isMainAirport(destination):
		other = origin
	default:
		return RouteEstimate{}, errors.Wrapf(ErrNoRouteFound, "%s -> %s: neither endpoint is CMB", origin, destination)
	}

	km, ok := t.lookup(other)
	if !ok {
		return RouteEstimate{}, errors.Wrapf(ErrNoRouteFound, "no table distance for %q", other)
	}
	return RouteEstimate{
		DistanceKm:      km,
		DurationMinutes: int(math.Round(km / AverageSpeedKmh * 60)),
		Source:          SourceTable,
	}, nil
}

func (t *RouteTable) lookup(place string) (float64, bool) {
	s := slug(place)
	if km, ok := t.distances[s]; ok {
		return km, true
	}
	if first, _, _ := strings.Cut(s, "-"); first != s {
		if km, ok := t.distances[first]; ok {
			return km, true
		}
	}
	for _, d := range destinations {
		if slug(d.Name) == s {
			if km, ok := t.distances[slug(d.Area)]; ok {
				return km, true
			}
		}
	}
	return 0, false
}

func isMainAirport(s string) bool {
	v := slug(s)
	return v == "cmb" || strings.Contains(v, "bandaranaike") || v == "katunayake" || v == "colombo-airport"
}
