package ports

import (
	"context"

	"rideway/internal/fleet-service/core/domain/dto"
	messagebrokerdto "rideway/internal/fleet-service/core/domain/message_broker_dto"
	domain "rideway/internal/fleet-service/core/domain/model"
)

type IDriversRepo interface {
	CreateDriver(ctx context.Context, userId, licenseNumber string) (domain.DriverProfile, error)

	// GetDriver accepts a profile id or the owning user's id.
	GetDriver(ctx context.Context, ref string) (domain.DriverProfile, error)

	UpdateDriverStatus(ctx context.Context, profileId, status string) (domain.DriverProfile, error)

	// AssignVehicle and UnassignVehicle update both sides of the
	// driver-vehicle relationship in a single transaction.
	AssignVehicle(ctx context.Context, profileId, vehicleId string) (domain.DriverProfile, error)
	UnassignVehicle(ctx context.Context, profileId string) (domain.DriverProfile, error)

	// MatchCandidates returns verified active drivers whose assigned
	// vehicle type is in vehicleTypes, or drivers with no vehicle at all
	// when unassigned is set. Store order, capped at limit.
	MatchCandidates(ctx context.Context, vehicleTypes []string, unassigned bool, limit int) ([]domain.DriverProfile, error)
}

type IVehiclesRepo interface {
	CreateVehicle(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	GetVehicle(ctx context.Context, vehicleId string) (domain.Vehicle, error)
}

type ILocationBroker interface {
	PushDriverLocation(ctx context.Context, message messagebrokerdto.DriverLocation) error
	IsAlive() bool
	Close() error
}

type IFleetService interface {
	CreateDriver(req dto.CreateDriverRequestDto) (dto.DriverResponseDto, error)
	GetDriver(driverRef string) (dto.DriverResponseDto, error)
	ChangeDriverStatus(driverRef string, req dto.DriverStatusRequestDto) (dto.DriverResponseDto, error)
	AssignVehicle(driverRef string, req dto.AssignVehicleRequestDto) (dto.DriverResponseDto, error)
	UnassignVehicle(driverRef string) (dto.DriverResponseDto, error)
	Match(category, rule string) (dto.MatchResponseDto, error)
	PingLocation(userId string, req dto.LocationPingDto) error
}

type IVehiclesService interface {
	CreateVehicle(req dto.CreateVehicleRequestDto) (dto.VehicleResponseDto, error)
	GetVehicle(vehicleId string) (dto.VehicleResponseDto, error)
}
