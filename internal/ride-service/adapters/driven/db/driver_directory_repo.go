package db

import (
	"context"
	"database/sql"
	"errors"

	domain "rideway/internal/ride-service/core/domain/model"
	"rideway/internal/ride-service/core/myerrors"
	"rideway/internal/ride-service/core/ports"

	"github.com/jackc/pgx/v5"
)

// DriverDirectoryRepo reads the fleet schema to resolve driver references
// and writes back the derived aggregates (rating, trip count).
type DriverDirectoryRepo struct {
	db *DB
}

func NewDriverDirectoryRepo(db *DB) ports.IDriverDirectory {
	return &DriverDirectoryRepo{
		db: db,
	}
}

// ResolveProfile accepts either a driver profile id or the owning user id
// and normalizes to the profile. The join on users enforces the driver
// role of the underlying account.
func (dr *DriverDirectoryRepo) ResolveProfile(ctx context.Context, driverRef string) (domain.DriverProfile, error) {
	q := `
	SELECT
		dp.profile_id,
		dp.user_id,
		dp.license_number,
		dp.vehicle_id,
		v.vehicle_type,
		dp.status,
		dp.is_verified,
		dp.rating,
		dp.total_trips
	FROM
		driver_profiles dp
	JOIN users u ON u.user_id = dp.user_id AND u.role = 'DRIVER'
	LEFT JOIN vehicles v ON v.vehicle_id = dp.vehicle_id
	WHERE
		dp.profile_id::text = $1 OR dp.user_id::text = $1`

	var (
		p           domain.DriverProfile
		vehicleId   sql.NullString
		vehicleType sql.NullString
	)
	err := dr.db.conn.QueryRow(ctx, q, driverRef).Scan(
		&p.ID,
		&p.UserId,
		&p.LicenseNumber,
		&vehicleId,
		&vehicleType,
		&p.Status,
		&p.IsVerified,
		&p.Rating,
		&p.TotalTrips,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DriverProfile{}, myerrors.ErrDriverNotFound
		}
		return domain.DriverProfile{}, err
	}

	p.VehicleId = vehicleId.String
	p.VehicleType = vehicleType.String
	return p, nil
}

func (dr *DriverDirectoryRepo) UpdateDriverRating(ctx context.Context, driverProfileId string, rating float64) error {
	q := `UPDATE driver_profiles SET rating = $2, updated_at = NOW() WHERE profile_id = $1`

	tag, err := dr.db.conn.Exec(ctx, q, driverProfileId, rating)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrDriverNotFound
	}
	return nil
}

func (dr *DriverDirectoryRepo) IncrementTotalTrips(ctx context.Context, driverProfileId string) error {
	q := `UPDATE driver_profiles SET total_trips = total_trips + 1, updated_at = NOW() WHERE profile_id = $1`

	tag, err := dr.db.conn.Exec(ctx, q, driverProfileId)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrDriverNotFound
	}
	return nil
}
