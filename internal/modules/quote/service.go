// README: Quote service resolves the route, prices it and stores the quote.
package quote

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"recharge/internal/maps"
	"recharge/internal/modules/pricing"
	"recharge/internal/types"
)

var (
	ErrNotFound   = errors.New("quote not found")
	ErrConflict   = errors.New("quote already exists")
	ErrBadRequest = errors.New("bad request")
	ErrNoRoute    = errors.New("no route between origin and destination")
)

type Options struct {
	TTL      time.Duration
	Location *time.Location
	Now      func() time.Time
	Logger   zerolog.Logger
}

type Service struct {
	repo    Repository
	routes  maps.RouteEstimator
	pricing *pricing.Service
	ttl     time.Duration
	loc     *time.Location
	now     func() time.Time
	log     zerolog.Logger
}

func NewService(repo Repository, routes maps.RouteEstimator, p *pricing.Service, opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:    repo,
		routes:  routes,
		pricing: p,
		ttl:     opts.TTL,
		loc:     opts.Location,
		now:     opts.Now,
		log:     opts.Logger,
	}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Quote, error) {
	origin := strings.TrimSpace(cmd.Origin)
	destination := strings.TrimSpace(cmd.Destination)
	if origin == "" || destination == "" {
		return nil, errors.Wrap(ErrBadRequest, "origin and destination are required")
	}
	// Route lookups can be billed, so reject an unknown class first.
	if _, err := s.pricing.Registry().Lookup(cmd.VehicleClassID); err != nil {
		return nil, err
	}

	route, err := s.routes.EstimateRoute(ctx, origin, destination)
	if err != nil {
		if errors.Is(err, maps.ErrNoRouteFound) {
			return nil, errors.Mark(err, ErrNoRoute)
		}
		return nil, err
	}

	req := pricing.EstimateRequest{
		DistanceKm:     route.DistanceKm,
		VehicleClassID: cmd.VehicleClassID,
	}
	if cmd.PickupAt != nil {
		pt := pricing.PickupTimeFrom(*cmd.PickupAt, s.loc)
		req.PickupTime = &pt
	}
	breakdown, err := s.pricing.Estimate(req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	q := &Quote{
		ID:             types.ID(uuid.NewString()),
		Origin:         origin,
		Destination:    destination,
		VehicleClassID: cmd.VehicleClassID,
		PickupAt:       cmd.PickupAt,
		Route:          route,
		Breakdown:      breakdown,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("quote_id", string(q.ID)).
		Str("route_source", route.Source).
		Float64("distance_km", route.DistanceKm).
		Float64("total", breakdown.TotalPrice).
		Msg("quote created")
	return q, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Quote, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Now is the service clock, shared with callers that check expiry.
func (s *Service) Now() time.Time {
	return s.now()
}

// RunJanitor drops quotes that expired more than grace ago, every interval, until ctx ends.
func (s *Service) RunJanitor(ctx context.Context, interval, grace time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, grace)
		}
	}
}

func (s *Service) sweep(ctx context.Context, grace time.Duration) {
	n, err := s.repo.DeleteExpired(ctx, s.now().UTC().Add(-grace))
	if err != nil {
		s.log.Warn().Err(err).Msg("quote janitor failed")
		return
	}
	if n > 0 {
		s.log.Debug().Int64("deleted", n).Msg("expired quotes removed")
	}
}
