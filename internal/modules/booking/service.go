// README: Booking service turns quotes into bookings and drives the status machine.
package booking

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"recharge/internal/modules/pricing"
	"recharge/internal/modules/quote"
	"recharge/internal/types"
)

var (
	ErrInvalidState = errors.New("invalid state transition")
	ErrNotFound     = errors.New("booking not found")
	ErrConflict     = errors.New("booking already exists")
	ErrBadRequest   = errors.New("bad request")
	ErrQuoteExpired = errors.New("quote expired")
)

// Quotes is the part of the quote service bookings depend on.
type Quotes interface {
	Get(ctx context.Context, id types.ID) (*quote.Quote, error)
}

type CreateCommand struct {
	QuoteID         types.ID
	TransferType    TransferType
	Customer        Customer
	Adults          int
	Children        int
	Infants         int
	Luggage         int
	ChildSeats      int
	FlightNumber    string
	SpecialRequests string
	MeetAndGreet    *bool // nil means true
	FlightTracking  *bool // nil means true
}

type Service struct {
	repo   Repository
	quotes Quotes
	now    func() time.Time
	log    zerolog.Logger
}

func NewService(repo Repository, quotes Quotes, now func() time.Time, log zerolog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, quotes: quotes, now: now, log: log}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Booking, error) {
	if err := validateCreate(cmd); err != nil {
		return nil, err
	}
	q, err := s.quotes.Get(ctx, cmd.QuoteID)
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			return nil, errors.Wrapf(ErrBadRequest, "quote %s not found", cmd.QuoteID)
		}
		return nil, err
	}
	now := s.now().UTC()
	if q.Expired(now) {
		return nil, errors.Wrapf(ErrQuoteExpired, "quote %s expired at %s", q.ID, q.ExpiresAt.Format(time.RFC3339))
	}

	ref, err := NewReference(now)
	if err != nil {
		return nil, errors.Wrap(err, "generate booking reference")
	}
	c := cmd.Customer
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	b := &Booking{
		ID:              types.ID(uuid.NewString()),
		Reference:       ref,
		QuoteID:         q.ID,
		TransferType:    cmd.TransferType,
		Origin:          q.Origin,
		Destination:     q.Destination,
		VehicleClassID:  q.VehicleClassID,
		PickupAt:        q.PickupAt,
		Customer:        c,
		Adults:          cmd.Adults,
		Children:        cmd.Children,
		Infants:         cmd.Infants,
		Luggage:         cmd.Luggage,
		ChildSeats:      cmd.ChildSeats,
		FlightNumber:    strings.ToUpper(strings.TrimSpace(cmd.FlightNumber)),
		SpecialRequests: cmd.SpecialRequests,
		MeetAndGreet:    boolOr(cmd.MeetAndGreet, true),
		FlightTracking:  boolOr(cmd.FlightTracking, true),
		OneWayPrice:     q.Breakdown.TotalPrice,
		TotalPrice:      q.Breakdown.TotalPrice * cmd.TransferType.PriceFactor(),
		DistanceKm:      q.Breakdown.DistanceKm,
		Currency:        pricing.Currency,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info().Str("booking_ref", b.Reference).Str("quote_id", string(q.ID)).Msg("booking created")
	return b, nil
}

func validateCreate(cmd CreateCommand) error {
	switch {
	case cmd.QuoteID == "":
		return errors.Wrap(ErrBadRequest, "quote id is required")
	case !cmd.TransferType.Valid():
		return errors.Wrapf(ErrBadRequest, "invalid transfer type %q", cmd.TransferType)
	case cmd.Adults < 1:
		return errors.Wrap(ErrBadRequest, "at least one adult is required")
	case cmd.Children < 0 || cmd.Infants < 0 || cmd.Luggage < 0 || cmd.ChildSeats < 0:
		return errors.Wrap(ErrBadRequest, "counts must not be negative")
	case cmd.ChildSeats > cmd.Children+cmd.Infants:
		return errors.Wrap(ErrBadRequest, "more child seats than children and infants")
	case strings.TrimSpace(cmd.Customer.LastName) == "":
		return errors.Wrap(ErrBadRequest, "last name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(cmd.Customer.Email)); err != nil {
		return errors.Wrapf(ErrBadRequest, "invalid email %q", cmd.Customer.Email)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if reference == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetByReference(ctx, reference)
}

func (s *Service) ListByEmail(ctx context.Context, email string) ([]Booking, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.Wrap(ErrBadRequest, "email is required")
	}
	return s.repo.ListByEmail(ctx, email)
}

const defaultListLimit = 100

func (s *Service) List(ctx context.Context, status Status) ([]Booking, error) {
	return s.repo.List(ctx, status, defaultListLimit)
}

// UpdateStatus moves the booking along AllowedTransitions. Moving to assigned
// goes through AssignDriver because it needs a driver.
func (s *Service) UpdateStatus(ctx context.Context, id types.ID, to Status, notes string) (*Booking, error) {
	if to == StatusAssigned {
		return nil, errors.Wrap(ErrBadRequest, "use driver assignment to move a booking to assigned")
	}
	var from Status
	b, err := s.repo.Update(ctx, id, func(b *Booking) error {
		from = b.Status
		if !CanTransition(b.Status, to) {
			return errors.Wrapf(ErrInvalidState, "%s -> %s", b.Status, to)
		}
		s.apply(b, to)
		if notes != "" {
			b.Notes = notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("booking_ref", b.Reference).Str("from", string(from)).Str("to", string(to)).Msg("booking status changed")
	return b, nil
}

func (s *Service) AssignDriver(ctx context.Context, id types.ID, d DriverAssignment) (*Booking, error) {
	if strings.TrimSpace(d.DriverID) == "" || strings.TrimSpace(d.DriverName) == "" {
		return nil, errors.Wrap(ErrBadRequest, "driver id and name are required")
	}
	b, err := s.repo.Update(ctx, id, func(b *Booking) error {
		if !CanTransition(b.Status, StatusAssigned) {
			return errors.Wrapf(ErrInvalidState, "%s -> %s", b.Status, StatusAssigned)
		}
		s.apply(b, StatusAssigned)
		b.Driver = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("booking_ref", b.Reference).Str("driver_id", d.DriverID).Msg("driver assigned")
	return b, nil
}

// UpdatePayment allows pending -> paid and paid -> refunded.
func (s *Service) UpdatePayment(ctx context.Context, id types.ID, to PaymentStatus) (*Booking, error) {
	if _, ok := ParsePaymentStatus(string(to)); !ok {
		return nil, errors.Wrapf(ErrBadRequest, "unknown payment status %q", to)
	}
	return s.repo.Update(ctx, id, func(b *Booking) error {
		if !CanChangePayment(b.PaymentStatus, to) {
			return errors.Wrapf(ErrInvalidState, "payment %s -> %s", b.PaymentStatus, to)
		}
		b.PaymentStatus = to
		b.UpdatedAt = s.now().UTC()
		return nil
	})
}

func (s *Service) apply(b *Booking, to Status) {
	now := s.now().UTC()
	b.Status = to
	b.UpdatedAt = now
	switch to {
	case StatusConfirmed:
		b.ConfirmedAt = &now
	case StatusCompleted:
		b.CompletedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
