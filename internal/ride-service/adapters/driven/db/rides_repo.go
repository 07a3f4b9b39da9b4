package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "rideway/internal/ride-service/core/domain/model"
	"rideway/internal/ride-service/core/myerrors"
	"rideway/internal/ride-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type RidesRepo struct {
	db *DB
}

func NewRidesRepo(db *DB) ports.IRidesRepo {
	return &RidesRepo{
		db: db,
	}
}

const rideColumns = `
	r.ride_id,
	r.created_at,
	r.updated_at,
	r.ride_number,
	r.rider_id,
	r.driver_id,
	r.category,
	r.status,
	r.pickup_address,
	r.pickup_latitude,
	r.pickup_longitude,
	r.destination_address,
	r.destination_latitude,
	r.destination_longitude,
	r.distance_km,
	r.estimated_duration_minutes,
	r.base_fare,
	r.distance_fare,
	r.total_fare,
	r.payment_method,
	r.payment_status,
	r.rider_rating,
	r.feedback,
	r.accepted_at,
	r.picked_up_at,
	r.started_at,
	r.completed_at,
	r.cancelled_at,
	r.cancellation_reason`

func scanRide(row pgx.Row) (domain.Ride, error) {
	var (
		m           domain.Ride
		driverId    sql.NullString
		riderRating sql.NullInt32
		feedback    sql.NullString
		reason      sql.NullString
		acceptedAt  sql.NullTime
		pickedUpAt  sql.NullTime
		startedAt   sql.NullTime
		completedAt sql.NullTime
		cancelledAt sql.NullTime
	)

	err := row.Scan(
		&m.ID,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.RideNumber,
		&m.RiderId,
		&driverId,
		&m.Category,
		&m.Status,
		&m.Pickup.Address,
		&m.Pickup.Latitude,
		&m.Pickup.Longitude,
		&m.Destination.Address,
		&m.Destination.Latitude,
		&m.Destination.Longitude,
		&m.DistanceKm,
		&m.EstimatedDurationMinutes,
		&m.BaseFare,
		&m.DistanceFare,
		&m.TotalFare,
		&m.PaymentMethod,
		&m.PaymentStatus,
		&riderRating,
		&feedback,
		&acceptedAt,
		&pickedUpAt,
		&startedAt,
		&completedAt,
		&cancelledAt,
		&reason,
	)
	if err != nil {
		return domain.Ride{}, err
	}

	m.DriverId = driverId.String
	m.Feedback = feedback.String
	m.CancellationReason = reason.String
	if riderRating.Valid {
		v := int(riderRating.Int32)
		m.RiderRating = &v
	}
	if acceptedAt.Valid {
		t := acceptedAt.Time
		m.AcceptedAt = &t
	}
	if pickedUpAt.Valid {
		t := pickedUpAt.Time
		m.PickedUpAt = &t
	}
	if startedAt.Valid {
		t := startedAt.Time
		m.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		m.CompletedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		m.CancelledAt = &t
	}
	return m, nil
}

func (rr *RidesRepo) CreateRide(ctx context.Context, m domain.Ride) (string, error) {
	q := `INSERT INTO rides(
		ride_number,
		rider_id,
		category,
		status,
		pickup_address,
		pickup_latitude,
		pickup_longitude,
		destination_address,
		destination_latitude,
		destination_longitude,
		distance_km,
		estimated_duration_minutes,
		base_fare,
		distance_fare,
		total_fare,
		payment_method,
		payment_status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	RETURNING ride_id`

	row := rr.db.conn.QueryRow(ctx, q,
		m.RideNumber,
		m.RiderId,
		m.Category,
		m.Status,
		m.Pickup.Address,
		m.Pickup.Latitude,
		m.Pickup.Longitude,
		m.Destination.Address,
		m.Destination.Latitude,
		m.Destination.Longitude,
		m.DistanceKm,
		m.EstimatedDurationMinutes,
		m.BaseFare,
		m.DistanceFare,
		m.TotalFare,
		m.PaymentMethod,
		m.PaymentStatus,
	)

	rideId := ""
	if err := row.Scan(&rideId); err != nil {
		return "", err
	}
	return rideId, nil
}

func (rr *RidesRepo) GetRide(ctx context.Context, rideId string) (domain.Ride, error) {
	q := `SELECT ` + rideColumns + ` FROM rides r WHERE r.ride_id = $1`

	m, err := scanRide(rr.db.conn.QueryRow(ctx, q, rideId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Ride{}, myerrors.ErrRideNotFound
		}
		return domain.Ride{}, err
	}
	return m, nil
}

func (rr *RidesRepo) GetNumberRides(ctx context.Context) (int64, error) {
	q := `
	SELECT
		COUNT(*)
	FROM
		rides
	WHERE
		created_at::date = current_date
	`
	var count int64 = 0
	if err := rr.db.conn.QueryRow(ctx, q).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (rr *RidesRepo) ActiveRideByRider(ctx context.Context, riderId string) (domain.Ride, error) {
	q := `SELECT ` + rideColumns + `
	FROM rides r
	WHERE r.rider_id = $1 AND r.status NOT IN ('completed', 'cancelled')
	LIMIT 1`

	m, err := scanRide(rr.db.conn.QueryRow(ctx, q, riderId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Ride{}, myerrors.ErrNoActiveRide
		}
		return domain.Ride{}, err
	}
	return m, nil
}

func (rr *RidesRepo) ActiveRideByDriver(ctx context.Context, driverProfileId string) (domain.Ride, error) {
	q := `SELECT ` + rideColumns + `
	FROM rides r
	WHERE r.driver_id = $1 AND r.status NOT IN ('completed', 'cancelled')
	LIMIT 1`

	m, err := scanRide(rr.db.conn.QueryRow(ctx, q, driverProfileId))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Ride{}, myerrors.ErrNoActiveRide
		}
		return domain.Ride{}, err
	}
	return m, nil
}

func (rr *RidesRepo) ListActiveRides(ctx context.Context, limit int) ([]domain.Ride, error) {
	q := `SELECT ` + rideColumns + `
	FROM rides r
	WHERE r.status NOT IN ('completed', 'cancelled')
	LIMIT $1`

	rows, err := rr.db.conn.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []domain.Ride
	for rows.Next() {
		m, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, m)
	}
	return rides, rows.Err()
}

// stampColumn is the lifecycle timestamp set alongside the status change.
// COALESCE keeps the first-set value on re-entry.
func stampColumn(to domain.Status) string {
	switch to {
	case domain.StatusAccepted:
		return "accepted_at"
	case domain.StatusPickedUp:
		return "picked_up_at"
	case domain.StatusInProgress:
		return "started_at"
	case domain.StatusCompleted:
		return "completed_at"
	case domain.StatusCancelled:
		return "cancelled_at"
	}
	return ""
}

func (rr *RidesRepo) TransitionStatus(ctx context.Context, rideId string, from, to domain.Status, reason string) error {
	conn := rr.db.conn
	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // Safe rollback if not committed

	set := `status = $1, updated_at = NOW()`
	if col := stampColumn(to); col != "" {
		set += fmt.Sprintf(`, %s = COALESCE(%s, NOW())`, col, col)
	}

	q := `UPDATE rides SET ` + set + ` WHERE ride_id = $2 AND status = $3`
	args := []any{to, rideId, from}
	if to == domain.StatusCancelled && reason != "" {
		q = `UPDATE rides SET ` + set + `, cancellation_reason = $4 WHERE ride_id = $2 AND status = $3`
		args = append(args, reason)
	}

	tag, err := tx.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	// The guard on the expected source status doubles as the optimistic
	// concurrency check; zero rows means the ride moved underneath us.
	if tag.RowsAffected() == 0 {
		var current domain.Status
		row := tx.QueryRow(ctx, `SELECT status FROM rides WHERE ride_id = $1`, rideId)
		if scanErr := row.Scan(&current); scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return myerrors.ErrRideNotFound
			}
			return scanErr
		}
		if current.IsTerminal() {
			return fmt.Errorf("%w: %s", myerrors.ErrRideTerminal, current)
		}
		return fmt.Errorf("%w: expected %s, found %s", myerrors.ErrStatusConflict, from, current)
	}

	return tx.Commit(ctx)
}

func (rr *RidesRepo) AssignDriver(ctx context.Context, rideId, driverProfileId string) (domain.Ride, error) {
	conn := rr.db.conn
	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Ride{}, err
	}
	defer tx.Rollback(ctx) // Safe rollback if not committed

	q := `UPDATE rides
	SET
		driver_id = $2,
		status = 'awaiting_driver_confirmation',
		accepted_at = COALESCE(accepted_at, NOW()),
		updated_at = NOW()
	WHERE ride_id = $1 AND status = 'pending'`

	tag, err := tx.Exec(ctx, q, rideId, driverProfileId)
	if err != nil {
		return domain.Ride{}, fmt.Errorf("failed to assign driver: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var current domain.Status
		row := tx.QueryRow(ctx, `SELECT status FROM rides WHERE ride_id = $1`, rideId)
		if scanErr := row.Scan(&current); scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return domain.Ride{}, myerrors.ErrRideNotFound
			}
			return domain.Ride{}, scanErr
		}
		return domain.Ride{}, fmt.Errorf("%w: status is %s", myerrors.ErrRideNotPending, current)
	}

	m, err := scanRide(tx.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides r WHERE r.ride_id = $1`, rideId))
	if err != nil {
		return domain.Ride{}, err
	}
	return m, tx.Commit(ctx)
}

func (rr *RidesRepo) SetRiderRating(ctx context.Context, rideId string, rating int, feedback string) error {
	conn := rr.db.conn
	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // Safe rollback if not committed

	q := `UPDATE rides
	SET
		rider_rating = $2,
		feedback = $3,
		updated_at = NOW()
	WHERE ride_id = $1 AND status = 'completed' AND rider_rating IS NULL`

	tag, err := tx.Exec(ctx, q, rideId, rating, feedback)
	if err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var (
			current     domain.Status
			riderRating sql.NullInt32
		)
		row := tx.QueryRow(ctx, `SELECT status, rider_rating FROM rides WHERE ride_id = $1`, rideId)
		if scanErr := row.Scan(&current, &riderRating); scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return myerrors.ErrRideNotFound
			}
			return scanErr
		}
		if riderRating.Valid {
			return myerrors.ErrAlreadyRated
		}
		return fmt.Errorf("%w: status is %s", myerrors.ErrRideNotCompleted, current)
	}

	return tx.Commit(ctx)
}

func (rr *RidesRepo) RiderRatingsByDriver(ctx context.Context, driverProfileId string) ([]int, error) {
	q := `SELECT rider_rating FROM rides WHERE driver_id = $1 AND rider_rating IS NOT NULL`

	rows, err := rr.db.conn.Query(ctx, q, driverProfileId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}
