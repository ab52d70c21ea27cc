package ai

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	IntentQuote         = "quote"
	IntentClarification = "clarification"
	IntentChat          = "chat"
)

var (
	ErrEmptyMessage  = errors.New("empty message")
	ErrBadModelReply = errors.New("model reply is not a valid transfer intent")
)

// TransferIntent captures the structured output from the AI model.
type TransferIntent struct {
	// Intent is "quote" once origin and destination are known, otherwise
	// "clarification" or "chat".
	Intent string `json:"intent"`

	Origin      *string `json:"origin,omitempty"`
	Destination *string `json:"destination,omitempty"`

	// VehicleClassID is empty when the customer did not name a vehicle.
	VehicleClassID string `json:"vehicle_class_id,omitempty"`

	// PickupAt is RFC3339 with offset, or null when no time was given.
	PickupAt *string `json:"pickup_at,omitempty"`

	Passengers int `json:"passengers"`
	Luggage    int `json:"luggage"`

	// Reply is a short response for the customer.
	Reply string `json:"reply"`
}

// Ready reports whether the intent carries enough to price a transfer.
func (t *TransferIntent) Ready() bool {
	return t.Intent == IntentQuote && nonEmpty(t.Origin) && nonEmpty(t.Destination)
}

// PickupTime parses PickupAt. A nil result means no pickup time was given.
func (t *TransferIntent) PickupTime() (*time.Time, error) {
	if !nonEmpty(t.PickupAt) {
		return nil, nil
	}
	v, err := time.Parse(time.RFC3339, strings.TrimSpace(*t.PickupAt))
	if err != nil {
		return nil, errors.Wrapf(ErrBadModelReply, "pickup_at %q", *t.PickupAt)
	}
	return &v, nil
}

// Vehicle returns the requested class, or one sized for the party when none was named.
func (t *TransferIntent) Vehicle() string {
	if t.VehicleClassID != "" {
		return t.VehicleClassID
	}
	return SuggestVehicleClass(t.Passengers)
}

// SuggestVehicleClass picks the smallest class that seats the party.
func SuggestVehicleClass(passengers int) string {
	switch {
	case passengers <= 3:
		return "sedan"
	case passengers <= 6:
		return "suv"
	case passengers <= 8:
		return "minivan"
	default:
		return "minicoach"
	}
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
