package myerrors

import "errors"

var (
	ErrDriverNotFound      = errors.New("driver not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotDriverRole       = errors.New("user does not have the driver role")
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrLicenseRegistered   = errors.New("license number already registered")
	ErrPlateRegistered     = errors.New("license plate already registered")
	ErrVehicleNotAvailable = errors.New("vehicle is not available")
	ErrNoVehicleAssigned   = errors.New("driver has no vehicle assigned")
	ErrUnknownStatus       = errors.New("unknown status")
	ErrUnknownVehicleType  = errors.New("unknown vehicle type")
	ErrUnknownCategory     = errors.New("unknown ride category")
	ErrUnknownMatchRule    = errors.New("unknown match rule")
)
