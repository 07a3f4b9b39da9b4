package services

import (
	"context"
	"errors"

	"rideway/internal/fleet-service/core/domain/dto"
	domain "rideway/internal/fleet-service/core/domain/model"
	"rideway/internal/fleet-service/core/myerrors"
	"rideway/internal/fleet-service/core/ports"
	"rideway/internal/mylogger"
)

type VehiclesService struct {
	ctx      context.Context
	mylog    mylogger.Logger
	vehicles ports.IVehiclesRepo
}

func NewVehiclesService(ctx context.Context, mylog mylogger.Logger, vehicles ports.IVehiclesRepo) ports.IVehiclesService {
	return &VehiclesService{
		ctx:      ctx,
		mylog:    mylog,
		vehicles: vehicles,
	}
}

func (vs *VehiclesService) CreateVehicle(req dto.CreateVehicleRequestDto) (dto.VehicleResponseDto, error) {
	mylog := vs.mylog.Action("CreateVehicle")

	if req.LicensePlate == nil || *req.LicensePlate == "" || req.VehicleType == nil {
		return dto.VehicleResponseDto{}, ErrEmptyField
	}
	if !domain.IsValidVehicleType(*req.VehicleType) {
		return dto.VehicleResponseDto{}, myerrors.ErrUnknownVehicleType
	}

	vehicle := domain.Vehicle{
		LicensePlate: *req.LicensePlate,
		VehicleType:  *req.VehicleType,
		Status:       domain.VehicleAvailable,
	}
	if req.Make != nil {
		vehicle.Make = *req.Make
	}
	if req.Model != nil {
		vehicle.Model = *req.Model
	}

	created, err := vs.vehicles.CreateVehicle(vs.ctx, vehicle)
	if err != nil {
		if errors.Is(err, myerrors.ErrPlateRegistered) {
			mylog.Warn("license plate already registered", "license_plate", vehicle.LicensePlate)
			return dto.VehicleResponseDto{}, err
		}
		mylog.Error("cannot create vehicle", err)
		return dto.VehicleResponseDto{}, err
	}

	mylog.Info("vehicle created", "vehicle_id", created.VehicleId)
	return vehicleToDto(created), nil
}

func (vs *VehiclesService) GetVehicle(vehicleId string) (dto.VehicleResponseDto, error) {
	if vehicleId == "" {
		return dto.VehicleResponseDto{}, ErrEmptyField
	}

	vehicle, err := vs.vehicles.GetVehicle(vs.ctx, vehicleId)
	if err != nil {
		return dto.VehicleResponseDto{}, err
	}

	return vehicleToDto(vehicle), nil
}

func vehicleToDto(v domain.Vehicle) dto.VehicleResponseDto {
	return dto.VehicleResponseDto{
		VehicleId:    v.VehicleId,
		LicensePlate: v.LicensePlate,
		VehicleType:  v.VehicleType,
		Make:         v.Make,
		Model:        v.Model,
		Status:       v.Status,
	}
}
