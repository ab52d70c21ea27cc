package maps

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"googlemaps.github.io/maps"
)

// Place is a simplified Places API result.
type Place struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Rating  float32 `json:"rating"`
	PlaceID string  `json:"place_id"`
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API Key. httpClient may be nil.
func NewPlacesService(apiKey string, httpClient *http.Client) (*PlacesService, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, maps.WithHTTPClient(httpClient))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create maps client")
	}
	return &PlacesService{client: client}, nil
}

const maxPlaceResults = 5

// SearchText runs a text search biased to Sri Lanka and keeps results whose
// address is in Sri Lanka.
func (s *PlacesService) SearchText(ctx context.Context, query string) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    query + " Sri Lanka",
		Language: "en",
		Region:   "lk",
	})
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "places text search"), ErrProviderUnavailable)
	}

	var out []Place
	for _, r := range resp.Results {
		if !containsIgnoreCase(r.FormattedAddress, "sri lanka") {
			continue
		}
		out = append(out, Place{
			Name:    r.Name,
			Address: r.FormattedAddress,
			Rating:  r.Rating,
			PlaceID: r.PlaceID,
		})
		if len(out) == maxPlaceResults {
			break
		}
	}
	return out, nil
}
