// README: Quote store backed by PostgreSQL (transfer_quotes).
package quote

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"recharge/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, q *Quote) error {
	b := q.Breakdown
	_, err := s.db.Exec(ctx, `
		INSERT INTO transfer_quotes (
			id, origin, destination, vehicle_class_id, pickup_at,
			distance_km, duration_minutes, route_source,
			base_price, distance_surcharge, vehicle_surcharge,
			night_surcharge, peak_surcharge, total_price,
			created_at, expires_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12, $13, $14,
			$15, $16
		)`,
		string(q.ID), q.Origin, q.Destination, q.VehicleClassID, q.PickupAt,
		q.Route.DistanceKm, q.Route.DurationMinutes, q.Route.Source,
		b.BasePrice, b.DistanceSurcharge, b.VehicleSurcharge,
		b.NightSurcharge, b.PeakSurcharge, b.TotalPrice,
		q.CreatedAt, q.ExpiresAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	return errors.Wrap(err, "insert quote")
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Quote, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, origin, destination, vehicle_class_id, pickup_at,
		       distance_km, duration_minutes, route_source,
		       base_price, distance_surcharge, vehicle_surcharge,
		       night_surcharge, peak_surcharge, total_price,
		       created_at, expires_at
		FROM transfer_quotes
		WHERE id = $1`, string(id),
	)

	var q Quote
	var pickupAt *time.Time
	b := &q.Breakdown
	err := row.Scan(
		&q.ID, &q.Origin, &q.Destination, &q.VehicleClassID, &pickupAt,
		&q.Route.DistanceKm, &q.Route.DurationMinutes, &q.Route.Source,
		&b.BasePrice, &b.DistanceSurcharge, &b.VehicleSurcharge,
		&b.NightSurcharge, &b.PeakSurcharge, &b.TotalPrice,
		&q.CreatedAt, &q.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select quote")
	}
	q.PickupAt = pickupAt
	b.DistanceKm = q.Route.DistanceKm
	return &q, nil
}

// DeleteExpired removes quotes that expired before now and returns how many were removed.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM transfer_quotes WHERE expires_at < $1`, now)
	if err != nil {
		return 0, errors.Wrap(err, "delete expired quotes")
	}
	return tag.RowsAffected(), nil
}
