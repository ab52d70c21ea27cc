// README: Booking store backed by Firestore (airportTransferBookings).
package booking

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/cockroachdb/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"recharge/internal/types"
)

// Collection is the Firestore collection bookings live in.
const Collection = "airportTransferBookings"

type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) col() *firestore.CollectionRef {
	return s.client.Collection(Collection)
}

func (s *Store) Create(ctx context.Context, b *Booking) error {
	_, err := s.col().Doc(string(b.ID)).Create(ctx, b)
	if status.Code(err) == codes.AlreadyExists {
		return ErrConflict
	}
	return errors.Wrap(err, "create booking")
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Booking, error) {
	snap, err := s.col().Doc(string(id)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get booking")
	}
	return decode(snap)
}

func (s *Store) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	out, err := s.query(ctx, s.col().Where("bookingReference", "==", reference).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (s *Store) ListByEmail(ctx context.Context, email string) ([]Booking, error) {
	return s.query(ctx, s.col().
		Where("customer.email", "==", email).
		OrderBy("createdAt", firestore.Desc))
}

func (s *Store) List(ctx context.Context, st Status, limit int) ([]Booking, error) {
	q := s.col().OrderBy("createdAt", firestore.Desc)
	if st != "" {
		q = s.col().Where("status", "==", string(st)).OrderBy("createdAt", firestore.Desc)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return s.query(ctx, q)
}

func (s *Store) Update(ctx context.Context, id types.ID, fn func(*Booking) error) (*Booking, error) {
	ref := s.col().Doc(string(id))
	var updated *Booking
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		b, err := decode(snap)
		if err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
		updated = b
		return tx.Set(ref, b)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidState) || errors.Is(err, ErrBadRequest) {
			return nil, err
		}
		return nil, errors.Wrap(err, "update booking")
	}
	return updated, nil
}

func (s *Store) query(ctx context.Context, q firestore.Query) ([]Booking, error) {
	it := q.Documents(ctx)
	defer it.Stop()
	out := make([]Booking, 0)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "query bookings")
		}
		b, err := decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func decode(snap *firestore.DocumentSnapshot) (*Booking, error) {
	var b Booking
	if err := snap.DataTo(&b); err != nil {
		return nil, errors.Wrapf(err, "decode booking %s", snap.Ref.ID)
	}
	if b.ID == "" {
		b.ID = types.ID(snap.Ref.ID)
	}
	return &b, nil
}
