package services

import (
	"context"
	"errors"

	"rideway/internal/fleet-service/core/domain/dto"
	messagebrokerdto "rideway/internal/fleet-service/core/domain/message_broker_dto"
	domain "rideway/internal/fleet-service/core/domain/model"
	"rideway/internal/fleet-service/core/myerrors"
	"rideway/internal/fleet-service/core/ports"
	"rideway/internal/mylogger"
)

var (
	ErrEmptyField       = errors.New("required field is missing")
	ErrInvalidLatitude  = errors.New("latitude must be in range [-90, 90]")
	ErrInvalidLongitude = errors.New("longitude must be in range [-180, 180]")
)

type FleetService struct {
	ctx      context.Context
	mylog    mylogger.Logger
	drivers  ports.IDriversRepo
	vehicles ports.IVehiclesRepo
	broker   ports.ILocationBroker
}

func NewFleetService(
	ctx context.Context,
	mylog mylogger.Logger,
	drivers ports.IDriversRepo,
	vehicles ports.IVehiclesRepo,
	broker ports.ILocationBroker,
) ports.IFleetService {
	return &FleetService{
		ctx:      ctx,
		mylog:    mylog,
		drivers:  drivers,
		vehicles: vehicles,
		broker:   broker,
	}
}

// ======================= Drivers =======================

func (fs *FleetService) CreateDriver(req dto.CreateDriverRequestDto) (dto.DriverResponseDto, error) {
	mylog := fs.mylog.Action("CreateDriver")

	if req.UserId == nil || *req.UserId == "" || req.LicenseNumber == nil || *req.LicenseNumber == "" {
		return dto.DriverResponseDto{}, ErrEmptyField
	}

	profile, err := fs.drivers.CreateDriver(fs.ctx, *req.UserId, *req.LicenseNumber)
	if err != nil {
		if errors.Is(err, myerrors.ErrLicenseRegistered) {
			mylog.Warn("license number already registered", "user_id", *req.UserId)
			return dto.DriverResponseDto{}, err
		}
		mylog.Error("cannot create driver profile", err)
		return dto.DriverResponseDto{}, err
	}

	mylog.Info("driver profile created", "profile_id", profile.ProfileId)
	return driverToDto(profile), nil
}

func (fs *FleetService) GetDriver(driverRef string) (dto.DriverResponseDto, error) {
	if driverRef == "" {
		return dto.DriverResponseDto{}, ErrEmptyField
	}

	profile, err := fs.drivers.GetDriver(fs.ctx, driverRef)
	if err != nil {
		return dto.DriverResponseDto{}, err
	}

	return driverToDto(profile), nil
}

func (fs *FleetService) ChangeDriverStatus(driverRef string, req dto.DriverStatusRequestDto) (dto.DriverResponseDto, error) {
	mylog := fs.mylog.Action("ChangeDriverStatus")

	if driverRef == "" || req.Status == nil {
		return dto.DriverResponseDto{}, ErrEmptyField
	}
	if !domain.IsValidDriverStatus(*req.Status) {
		return dto.DriverResponseDto{}, myerrors.ErrUnknownStatus
	}

	profile, err := fs.drivers.GetDriver(fs.ctx, driverRef)
	if err != nil {
		return dto.DriverResponseDto{}, err
	}

	updated, err := fs.drivers.UpdateDriverStatus(fs.ctx, profile.ProfileId, *req.Status)
	if err != nil {
		mylog.Error("cannot update driver status", err, "profile_id", profile.ProfileId)
		return dto.DriverResponseDto{}, err
	}

	mylog.Info("driver status updated", "profile_id", updated.ProfileId, "status", updated.Status)
	return driverToDto(updated), nil
}

// ======================= Vehicle assignment =======================

func (fs *FleetService) AssignVehicle(driverRef string, req dto.AssignVehicleRequestDto) (dto.DriverResponseDto, error) {
	mylog := fs.mylog.Action("AssignVehicle")

	if driverRef == "" || req.VehicleId == nil || *req.VehicleId == "" {
		return dto.DriverResponseDto{}, ErrEmptyField
	}

	profile, err := fs.drivers.GetDriver(fs.ctx, driverRef)
	if err != nil {
		return dto.DriverResponseDto{}, err
	}

	updated, err := fs.drivers.AssignVehicle(fs.ctx, profile.ProfileId, *req.VehicleId)
	if err != nil {
		if errors.Is(err, myerrors.ErrVehicleNotAvailable) {
			mylog.Warn("vehicle is not available", "vehicle_id", *req.VehicleId)
			return dto.DriverResponseDto{}, err
		}
		mylog.Error("cannot assign vehicle", err, "profile_id", profile.ProfileId)
		return dto.DriverResponseDto{}, err
	}

	mylog.Info("vehicle assigned", "profile_id", updated.ProfileId, "vehicle_id", updated.VehicleId)
	return driverToDto(updated), nil
}

func (fs *FleetService) UnassignVehicle(driverRef string) (dto.DriverResponseDto, error) {
	mylog := fs.mylog.Action("UnassignVehicle")

	if driverRef == "" {
		return dto.DriverResponseDto{}, ErrEmptyField
	}

	profile, err := fs.drivers.GetDriver(fs.ctx, driverRef)
	if err != nil {
		return dto.DriverResponseDto{}, err
	}

	updated, err := fs.drivers.UnassignVehicle(fs.ctx, profile.ProfileId)
	if err != nil {
		if errors.Is(err, myerrors.ErrNoVehicleAssigned) {
			return dto.DriverResponseDto{}, err
		}
		mylog.Error("cannot unassign vehicle", err, "profile_id", profile.ProfileId)
		return dto.DriverResponseDto{}, err
	}

	mylog.Info("vehicle unassigned", "profile_id", updated.ProfileId)
	return driverToDto(updated), nil
}

// ======================= Matching =======================

func (fs *FleetService) Match(category, rule string) (dto.MatchResponseDto, error) {
	if rule == "" {
		rule = MatchRuleRiderSearch
	}

	vehicleTypes, unassigned, err := matchFilter(category, rule)
	if err != nil {
		return dto.MatchResponseDto{}, err
	}

	candidates, err := fs.drivers.MatchCandidates(fs.ctx, vehicleTypes, unassigned, MatchLimit)
	if err != nil {
		fs.mylog.Action("Match").Error("cannot query candidates", err, "category", category, "rule", rule)
		return dto.MatchResponseDto{}, err
	}

	res := dto.MatchResponseDto{
		Category:   category,
		Rule:       rule,
		Candidates: make([]dto.DriverResponseDto, 0, len(candidates)),
	}
	for _, c := range candidates {
		res.Candidates = append(res.Candidates, driverToDto(c))
	}
	return res, nil
}

// ======================= Location =======================

func (fs *FleetService) PingLocation(userId string, req dto.LocationPingDto) error {
	mylog := fs.mylog.Action("PingLocation")

	if userId == "" || req.Latitude == nil || req.Longitude == nil {
		return ErrEmptyField
	}
	if *req.Latitude < -90 || *req.Latitude > 90 {
		return ErrInvalidLatitude
	}
	if *req.Longitude < -180 || *req.Longitude > 180 {
		return ErrInvalidLongitude
	}

	profile, err := fs.drivers.GetDriver(fs.ctx, userId)
	if err != nil {
		return err
	}

	msg := messagebrokerdto.DriverLocation{
		DriverProfileId: profile.ProfileId,
		Latitude:        *req.Latitude,
		Longitude:       *req.Longitude,
	}
	if err := fs.broker.PushDriverLocation(fs.ctx, msg); err != nil {
		mylog.Error("cannot publish driver location", err, "profile_id", profile.ProfileId)
		return err
	}

	return nil
}

func driverToDto(p domain.DriverProfile) dto.DriverResponseDto {
	return dto.DriverResponseDto{
		ProfileId:     p.ProfileId,
		UserId:        p.UserId,
		LicenseNumber: p.LicenseNumber,
		VehicleId:     p.VehicleId,
		VehicleType:   p.VehicleType,
		Status:        p.Status,
		TotalTrips:    p.TotalTrips,
		DriverRating:  p.DriverRating,
		IsVerified:    p.IsVerified,
	}
}
