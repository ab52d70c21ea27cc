// README: Booking aggregate, status definitions and booking references.
package booking

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"recharge/internal/types"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type TransferType string

const (
	TransferArrival   TransferType = "arrival"
	TransferDeparture TransferType = "departure"
	TransferRoundTrip TransferType = "round-trip"
)

func (t TransferType) Valid() bool {
	switch t {
	case TransferArrival, TransferDeparture, TransferRoundTrip:
		return true
	}
	return false
}

// ReturnTripFactor prices a round trip as both legs less a 10% discount.
const ReturnTripFactor = 1.8

// PriceFactor is the multiple of the one-way quote a booking of this type costs.
func (t TransferType) PriceFactor() float64 {
	if t == TransferRoundTrip {
		return ReturnTripFactor
	}
	return 1
}

type Customer struct {
	FirstName string `json:"first_name" firestore:"firstName"`
	LastName  string `json:"last_name" firestore:"lastName"`
	Email     string `json:"email" firestore:"email"`
	Phone     string `json:"phone,omitempty" firestore:"phone"`
	Country   string `json:"country,omitempty" firestore:"country"`
}

type DriverAssignment struct {
	DriverID    string `json:"driver_id" firestore:"driverId"`
	DriverName  string `json:"driver_name" firestore:"driverName"`
	DriverPhone string `json:"driver_phone,omitempty" firestore:"driverPhone"`
	VehicleID   string `json:"vehicle_id,omitempty" firestore:"vehicleId"`
}

type Booking struct {
	ID              types.ID          `json:"id" firestore:"id"`
	Reference       string            `json:"booking_reference" firestore:"bookingReference"`
	QuoteID         types.ID          `json:"quote_id" firestore:"quoteId"`
	TransferType    TransferType      `json:"transfer_type" firestore:"transferType"`
	Origin          string            `json:"origin" firestore:"origin"`
	Destination     string            `json:"destination" firestore:"destination"`
	VehicleClassID  string            `json:"vehicle_class_id" firestore:"vehicleClassId"`
	PickupAt        *time.Time        `json:"pickup_at,omitempty" firestore:"pickupAt"`
	Customer        Customer          `json:"customer" firestore:"customer"`
	Adults          int               `json:"adults" firestore:"adults"`
	Children        int               `json:"children" firestore:"children"`
	Infants         int               `json:"infants" firestore:"infants"`
	Luggage         int               `json:"luggage" firestore:"luggage"`
	ChildSeats      int               `json:"child_seats" firestore:"childSeats"`
	FlightNumber    string            `json:"flight_number,omitempty" firestore:"flightNumber"`
	SpecialRequests string            `json:"special_requests,omitempty" firestore:"specialRequests"`
	MeetAndGreet    bool              `json:"meet_and_greet" firestore:"meetAndGreet"`
	FlightTracking  bool              `json:"flight_tracking" firestore:"flightTracking"`
	OneWayPrice     float64           `json:"one_way_price" firestore:"oneWayPrice"`
	TotalPrice      float64           `json:"total_price" firestore:"totalPrice"`
	DistanceKm      float64           `json:"distance_km" firestore:"distanceKm"`
	Currency        string            `json:"currency" firestore:"currency"`
	Status          Status            `json:"status" firestore:"status"`
	PaymentStatus   PaymentStatus     `json:"payment_status" firestore:"paymentStatus"`
	Driver          *DriverAssignment `json:"driver,omitempty" firestore:"driver"`
	Notes           string            `json:"notes,omitempty" firestore:"notes"`
	CreatedAt       time.Time         `json:"created_at" firestore:"createdAt"`
	UpdatedAt       time.Time         `json:"updated_at" firestore:"updatedAt"`
	ConfirmedAt     *time.Time        `json:"confirmed_at,omitempty" firestore:"confirmedAt"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty" firestore:"completedAt"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty" firestore:"cancelledAt"`
}

// AllowedTransitions represents the booking state flow (diagram) as code.
var AllowedTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ParseStatus accepts the wire form of a status ("in-progress", ...).
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// ParsePaymentStatus accepts the wire form of a payment status.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch ps := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); ps {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return ps, true
	}
	return "", false
}

// CanChangePayment reports whether a payment may move from one status to the next.
// Refunded is terminal.
func CanChangePayment(from, to PaymentStatus) bool {
	next, ok := allowedPayment[from]
	return ok && next == to
}

var allowedPayment = map[PaymentStatus]PaymentStatus{
	PaymentPending: PaymentPaid,
	PaymentPaid:    PaymentRefunded,
}

const referenceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewReference returns "AT" + base36 unix millis + 4 random base36 chars, upper-cased.
func NewReference(now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString("AT")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(referenceAlphabet[n.Int64()])
	}
	return strings.ToUpper(b.String()), nil
}
