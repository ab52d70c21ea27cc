// README: Transfer pricing types: vehicle classes, pickup time and the price breakdown.
package pricing

import (
	"github.com/cockroachdb/errors"
)

const (
	// BasePrice is the flat fare every transfer starts from, in USD.
	BasePrice = 25.0
	// PricePerKm is charged on the full route distance.
	PricePerKm = 0.5
	// NightRate applies to the subtotal for pickups in the night window.
	NightRate = 0.20
	// PeakRate applies to the subtotal for weekday pickups in the peak window.
	PeakRate = 0.15
	// MaxDistanceKm bounds a single transfer. Longer distances are rejected
	// as invalid so every total stays representable in cents.
	MaxDistanceKm = 1_000_000.0

	Currency = "USD"
)

var (
	ErrInvalidDistance     = errors.New("invalid distance")
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")
	ErrInvalidPickupHour   = errors.New("invalid pickup hour")
)

// VehicleClass is one row of the vehicle registry.
type VehicleClass struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Passengers  int     `json:"passengers"`
	Luggage     int     `json:"luggage"`
	Multiplier  float64 `json:"multiplier"`
}

// PickupTime is the part of a pickup instant that pricing cares about.
type PickupTime struct {
	Hour      int  `json:"hour"`
	IsWeekday bool `json:"is_weekday"`
}

// TimeWindow is the time-of-day surcharge category of a pickup.
type TimeWindow int

const (
	WindowNone TimeWindow = iota
	WindowNight
	WindowPeak
)

func (w TimeWindow) String() string {
	switch w {
	case WindowNight:
		return "night"
	case WindowPeak:
		return "peak"
	default:
		return "none"
	}
}

type EstimateRequest struct {
	DistanceKm     float64
	VehicleClassID string
	PickupTime     *PickupTime // nil: no time-based surcharge
}

// PriceBreakdown holds unrounded amounts. Round with FormatBreakdown when displaying.
type PriceBreakdown struct {
	BasePrice         float64 `json:"base_price"`
	DistanceSurcharge float64 `json:"distance_surcharge"`
	VehicleSurcharge  float64 `json:"vehicle_surcharge"`
	NightSurcharge    float64 `json:"night_surcharge"`
	PeakSurcharge     float64 `json:"peak_surcharge"`
	TotalPrice        float64 `json:"total_price"`
	DistanceKm        float64 `json:"distance_km"`
}

// Subtotal is base plus distance, the amount percentage surcharges are taken from.
func (b PriceBreakdown) Subtotal() float64 {
	return b.BasePrice + b.DistanceSurcharge
}
