package db

import (
	"context"
	"errors"
	"fmt"

	domain "rideway/internal/fleet-service/core/domain/model"
	"rideway/internal/fleet-service/core/myerrors"
	"rideway/internal/fleet-service/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type VehiclesRepo struct {
	db *DB
}

func NewVehiclesRepo(db *DB) ports.IVehiclesRepo {
	return &VehiclesRepo{
		db: db,
	}
}

func (vr *VehiclesRepo) CreateVehicle(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	tx, err := vr.db.conn.Begin(ctx)
	if err != nil {
		if err := vr.db.IsAlive(); err != nil {
			return domain.Vehicle{}, err
		}
		return domain.Vehicle{}, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	q := `INSERT INTO vehicles (
	license_plate, vehicle_type, make, model, status
	) VALUES ($1, $2, $3, $4, $5) RETURNING vehicle_id;`

	vehicleId := ""
	row := tx.QueryRow(ctx, q, vehicle.LicensePlate, vehicle.VehicleType, vehicle.Make, vehicle.Model, vehicle.Status)
	if err = row.Scan(&vehicleId); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.Vehicle{}, myerrors.ErrPlateRegistered
		}
		return domain.Vehicle{}, fmt.Errorf("failed to insert vehicle: %v", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return domain.Vehicle{}, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return vr.GetVehicle(ctx, vehicleId)
}

func (vr *VehiclesRepo) GetVehicle(ctx context.Context, vehicleId string) (domain.Vehicle, error) {
	q := `
		SELECT
			v.vehicle_id,
			v.created_at,
			v.updated_at,
			v.license_plate,
			v.vehicle_type,
			v.make,
			v.model,
			v.status
		FROM
			vehicles v
		WHERE
			v.vehicle_id::text = $1
	`

	var v domain.Vehicle
	err := vr.db.conn.QueryRow(ctx, q, vehicleId).Scan(
		&v.VehicleId,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.LicensePlate,
		&v.VehicleType,
		&v.Make,
		&v.Model,
		&v.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, myerrors.ErrVehicleNotFound
		}
		return domain.Vehicle{}, err
	}

	return v, nil
}
