package ports

import (
	"context"

	domain "rideway/internal/ride-service/core/domain/model"

	"github.com/jackc/pgx/v5"
)

type IDB interface {
	GetConn() *pgx.Conn
	IsAlive() error
	Close() error
}

type IRidesRepo interface {
	CreateRide(ctx context.Context, ride domain.Ride) (string, error)
	GetRide(ctx context.Context, rideId string) (domain.Ride, error)
	GetNumberRides(ctx context.Context) (int64, error)

	// ActiveRideByRider returns the rider's single non-terminal ride.
	ActiveRideByRider(ctx context.Context, riderId string) (domain.Ride, error)
	// ActiveRideByDriver returns the non-terminal ride assigned to the
	// driver profile, used to route location updates to its rider.
	ActiveRideByDriver(ctx context.Context, driverProfileId string) (domain.Ride, error)
	ListActiveRides(ctx context.Context, limit int) ([]domain.Ride, error)

	// TransitionStatus persists from -> to guarded by the expected source
	// status; a concurrent change surfaces as a status-conflict error.
	TransitionStatus(ctx context.Context, rideId string, from, to domain.Status, reason string) error

	// AssignDriver sets the driver and moves pending ->
	// awaiting_driver_confirmation in one guarded statement.
	AssignDriver(ctx context.Context, rideId, driverProfileId string) (domain.Ride, error)

	// SetRiderRating records the rating once, guarded on completed status
	// and an unset rating.
	SetRiderRating(ctx context.Context, rideId string, rating int, feedback string) error
	// RiderRatingsByDriver returns every rider rating across the driver's
	// ride history.
	RiderRatingsByDriver(ctx context.Context, driverProfileId string) ([]int, error)
}

// IDriverDirectory resolves driver references and holds the derived
// rating. Lives in the fleet schema; the ride service only reads and
// updates the aggregate fields.
type IDriverDirectory interface {
	// ResolveProfile accepts a profile id or the owning user id and
	// returns the canonical profile.
	ResolveProfile(ctx context.Context, driverRef string) (domain.DriverProfile, error)
	UpdateDriverRating(ctx context.Context, driverProfileId string, rating float64) error
	IncrementTotalTrips(ctx context.Context, driverProfileId string) error
}
