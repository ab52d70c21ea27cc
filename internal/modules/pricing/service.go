// README: Pricing service computes transfer fare breakdowns.
package pricing

import (
	"math"

	"github.com/cockroachdb/errors"

	"recharge/internal/types"
)

// Service computes price breakdowns against a vehicle registry. It holds no
// mutable state and is safe for concurrent use.
type Service struct {
	registry Registry
}

func NewService(registry Registry) *Service {
	return &Service{registry: registry}
}

// Registry returns the vehicle classes this service prices against.
func (s *Service) Registry() Registry {
	return s.registry
}

// Estimate returns the full breakdown for a transfer or the first validation
// error. Amounts are not rounded.
func (s *Service) Estimate(req EstimateRequest) (PriceBreakdown, error) {
	d := req.DistanceKm
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 || d > MaxDistanceKm {
		return PriceBreakdown{}, errors.Wrapf(ErrInvalidDistance, "distance %v km", d)
	}

	b := PriceBreakdown{
		BasePrice:         BasePrice,
		DistanceSurcharge: d * PricePerKm,
		DistanceKm:        d,
	}
	subtotal := b.Subtotal()

	vehicle, err := s.registry.VehicleSurcharge(req.VehicleClassID, subtotal)
	if err != nil {
		return PriceBreakdown{}, err
	}
	b.VehicleSurcharge = vehicle

	if req.PickupTime != nil {
		window, err := ClassifyTimeWindow(req.PickupTime.Hour, req.PickupTime.IsWeekday)
		if err != nil {
			return PriceBreakdown{}, err
		}
		switch window {
		case WindowNight:
			b.NightSurcharge = subtotal * NightRate
		case WindowPeak:
			b.PeakSurcharge = subtotal * PeakRate
		}
	}

	b.TotalPrice = b.BasePrice + b.DistanceSurcharge + b.VehicleSurcharge + b.NightSurcharge + b.PeakSurcharge
	if math.IsInf(b.TotalPrice, 0) || b.TotalPrice > types.MaxUSD {
		return PriceBreakdown{}, errors.Wrapf(ErrInvalidDistance, "distance %v km prices out of range", d)
	}
	return b, nil
}

var defaultService = NewService(defaultRegistry)

// Estimate prices a transfer against the default registry.
func Estimate(req EstimateRequest) (PriceBreakdown, error) {
	return defaultService.Estimate(req)
}
