package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "rideway/internal/fleet-service/core/domain/model"
	"rideway/internal/fleet-service/core/myerrors"
	"rideway/internal/fleet-service/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const driverColumns = `
	dp.profile_id,
	dp.user_id,
	dp.created_at,
	dp.updated_at,
	dp.license_number,
	dp.vehicle_id,
	v.vehicle_type,
	dp.status,
	dp.total_trips,
	dp.rating,
	dp.is_verified`

type DriversRepo struct {
	db *DB
}

func NewDriversRepo(db *DB) ports.IDriversRepo {
	return &DriversRepo{
		db: db,
	}
}

func scanDriver(row pgx.Row) (domain.DriverProfile, error) {
	var (
		p           domain.DriverProfile
		vehicleId   sql.NullString
		vehicleType sql.NullString
	)
	err := row.Scan(
		&p.ProfileId,
		&p.UserId,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.LicenseNumber,
		&vehicleId,
		&vehicleType,
		&p.Status,
		&p.TotalTrips,
		&p.DriverRating,
		&p.IsVerified,
	)
	if err != nil {
		return domain.DriverProfile{}, err
	}

	p.VehicleId = vehicleId.String
	p.VehicleType = vehicleType.String
	return p, nil
}

func (dr *DriversRepo) CreateDriver(ctx context.Context, userId, licenseNumber string) (domain.DriverProfile, error) {
	tx, err := dr.db.conn.Begin(ctx)
	if err != nil {
		if err := dr.db.IsAlive(); err != nil {
			return domain.DriverProfile{}, err
		}
		return domain.DriverProfile{}, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// The profile only makes sense on a driver account. Checked inside
	// the transaction so a failed check leaves no row behind.
	role := ""
	q := `SELECT role FROM users WHERE user_id::text = $1`
	if err = tx.QueryRow(ctx, q, userId).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = myerrors.ErrUserNotFound
			return domain.DriverProfile{}, err
		}
		return domain.DriverProfile{}, err
	}
	if role != "DRIVER" {
		err = myerrors.ErrNotDriverRole
		return domain.DriverProfile{}, err
	}

	q = `INSERT INTO driver_profiles (
	user_id, license_number, status
	) VALUES ($1, $2, 'pending') RETURNING profile_id;`

	profileId := ""
	if err = tx.QueryRow(ctx, q, userId, licenseNumber).Scan(&profileId); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.DriverProfile{}, myerrors.ErrLicenseRegistered
		}
		return domain.DriverProfile{}, fmt.Errorf("failed to insert driver profile: %v", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.DriverProfile{}, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return dr.GetDriver(ctx, profileId)
}

// GetDriver accepts either a profile id or the owning user id. The join
// on users enforces the driver role of the underlying account.
func (dr *DriversRepo) GetDriver(ctx context.Context, ref string) (domain.DriverProfile, error) {
	q := `
	SELECT ` + driverColumns + `
	FROM
		driver_profiles dp
	JOIN users u ON u.user_id = dp.user_id AND u.role = 'DRIVER'
	LEFT JOIN vehicles v ON v.vehicle_id = dp.vehicle_id
	WHERE
		dp.profile_id::text = $1 OR dp.user_id::text = $1`

	p, err := scanDriver(dr.db.conn.QueryRow(ctx, q, ref))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DriverProfile{}, myerrors.ErrDriverNotFound
		}
		return domain.DriverProfile{}, err
	}
	return p, nil
}

func (dr *DriversRepo) UpdateDriverStatus(ctx context.Context, profileId, status string) (domain.DriverProfile, error) {
	q := `UPDATE driver_profiles SET status = $2, updated_at = NOW() WHERE profile_id = $1`

	tag, err := dr.db.conn.Exec(ctx, q, profileId, status)
	if err != nil {
		return domain.DriverProfile{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.DriverProfile{}, myerrors.ErrDriverNotFound
	}

	return dr.GetDriver(ctx, profileId)
}

// AssignVehicle points the driver at the vehicle and marks the vehicle
// assigned. Both sides move in one transaction, the vehicle row is
// locked to keep a concurrent assign from grabbing it.
func (dr *DriversRepo) AssignVehicle(ctx context.Context, profileId, vehicleId string) (domain.DriverProfile, error) {
	tx, err := dr.db.conn.Begin(ctx)
	if err != nil {
		if err := dr.db.IsAlive(); err != nil {
			return domain.DriverProfile{}, err
		}
		return domain.DriverProfile{}, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	status := ""
	q := `SELECT status FROM vehicles WHERE vehicle_id = $1 FOR UPDATE`
	if err = tx.QueryRow(ctx, q, vehicleId).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DriverProfile{}, myerrors.ErrVehicleNotFound
		}
		return domain.DriverProfile{}, err
	}
	if status != domain.VehicleAvailable {
		err = myerrors.ErrVehicleNotAvailable
		return domain.DriverProfile{}, err
	}

	q = `UPDATE vehicles SET status = 'assigned', updated_at = NOW() WHERE vehicle_id = $1`
	if _, err = tx.Exec(ctx, q, vehicleId); err != nil {
		return domain.DriverProfile{}, err
	}

	q = `UPDATE driver_profiles SET vehicle_id = $2, updated_at = NOW() WHERE profile_id = $1`
	tag, execErr := tx.Exec(ctx, q, profileId, vehicleId)
	if execErr != nil {
		err = execErr
		return domain.DriverProfile{}, err
	}
	if tag.RowsAffected() == 0 {
		err = myerrors.ErrDriverNotFound
		return domain.DriverProfile{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.DriverProfile{}, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return dr.GetDriver(ctx, profileId)
}

// UnassignVehicle clears both sides of the relationship in one
// transaction, mirroring AssignVehicle.
func (dr *DriversRepo) UnassignVehicle(ctx context.Context, profileId string) (domain.DriverProfile, error) {
	tx, err := dr.db.conn.Begin(ctx)
	if err != nil {
		if err := dr.db.IsAlive(); err != nil {
			return domain.DriverProfile{}, err
		}
		return domain.DriverProfile{}, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var vehicleId sql.NullString
	q := `SELECT vehicle_id FROM driver_profiles WHERE profile_id = $1 FOR UPDATE`
	if err = tx.QueryRow(ctx, q, profileId).Scan(&vehicleId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DriverProfile{}, myerrors.ErrDriverNotFound
		}
		return domain.DriverProfile{}, err
	}
	if !vehicleId.Valid || vehicleId.String == "" {
		err = myerrors.ErrNoVehicleAssigned
		return domain.DriverProfile{}, err
	}

	q = `UPDATE driver_profiles SET vehicle_id = NULL, updated_at = NOW() WHERE profile_id = $1`
	if _, err = tx.Exec(ctx, q, profileId); err != nil {
		return domain.DriverProfile{}, err
	}

	q = `UPDATE vehicles SET status = 'available', updated_at = NOW() WHERE vehicle_id = $1`
	if _, err = tx.Exec(ctx, q, vehicleId.String); err != nil {
		return domain.DriverProfile{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.DriverProfile{}, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return dr.GetDriver(ctx, profileId)
}

// MatchCandidates lists verified active drivers compatible with the
// vehicle filter. Store order, no ranking.
func (dr *DriversRepo) MatchCandidates(ctx context.Context, vehicleTypes []string, unassigned bool, limit int) ([]domain.DriverProfile, error) {
	q := `
	SELECT ` + driverColumns + `
	FROM
		driver_profiles dp
	JOIN users u ON u.user_id = dp.user_id AND u.role = 'DRIVER'
	LEFT JOIN vehicles v ON v.vehicle_id = dp.vehicle_id
	WHERE
		dp.status = 'active' AND dp.is_verified = TRUE`

	args := []any{}
	if unassigned {
		q += ` AND dp.vehicle_id IS NULL`
	} else {
		q += ` AND v.vehicle_type = ANY($1)`
		args = append(args, vehicleTypes)
	}
	q += fmt.Sprintf(` ORDER BY dp.created_at LIMIT %d`, limit)

	rows, err := dr.db.conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []domain.DriverProfile{}
	for rows.Next() {
		p, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, p)
	}
	return candidates, rows.Err()
}
