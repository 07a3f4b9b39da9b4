package ports

import (
	"rideway/internal/ride-service/core/domain/dto"
	domain "rideway/internal/ride-service/core/domain/model"
)

type IRidesService interface {
	Estimate(req dto.EstimateRequestDto) (dto.EstimateResponseDto, error)
	OrderRide(actor domain.Actor, req dto.OrderRequestDto) (dto.OrderResponseDto, error)
	GetRide(actor domain.Actor, rideId string) (dto.RideResponseDto, error)
	ActiveRide(actor domain.Actor) (dto.RideResponseDto, error)
	ListActiveRides(actor domain.Actor) ([]dto.RideResponseDto, error)

	ChangeStatus(actor domain.Actor, rideId string, req dto.StatusUpdateRequestDto) (dto.StatusUpdateResponseDto, error)
	AcceptRide(actor domain.Actor, rideId string) (dto.StatusUpdateResponseDto, error)
	DeclineRide(actor domain.Actor, rideId string) (dto.StatusUpdateResponseDto, error)
	AssignDriver(actor domain.Actor, rideId string, req dto.AssignRequestDto) (dto.AssignResponseDto, error)
	RateRide(actor domain.Actor, rideId string, req dto.RateRequestDto) (dto.RateResponseDto, error)

	// RouteDriverLocation finds the rider of the driver's active ride for
	// location fan-out; returns the ride id as well.
	RouteDriverLocation(driverProfileId string) (riderId, rideId string, err error)
}
