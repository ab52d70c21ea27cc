// README: Quote aggregate: a priced route the customer can book before it expires.
package quote

import (
	"time"

	"recharge/internal/maps"
	"recharge/internal/modules/pricing"
	"recharge/internal/types"
)

// DefaultTTL is how long a quote stays bookable.
const DefaultTTL = 30 * time.Minute

type Quote struct {
	ID             types.ID               `json:"id"`
	Origin         string                 `json:"origin"`
	Destination    string                 `json:"destination"`
	VehicleClassID string                 `json:"vehicle_class_id"`
	PickupAt       *time.Time             `json:"pickup_at,omitempty"`
	Route          maps.RouteEstimate     `json:"route"`
	Breakdown      pricing.PriceBreakdown `json:"breakdown"`
	CreatedAt      time.Time              `json:"created_at"`
	ExpiresAt      time.Time              `json:"expires_at"`
}

// Expired reports whether the quote can no longer be booked at now.
func (q *Quote) Expired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}

type CreateCommand struct {
	Origin         string
	Destination    string
	VehicleClassID string
	PickupAt       *time.Time
}
