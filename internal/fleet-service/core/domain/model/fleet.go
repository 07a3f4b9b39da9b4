package model

import "time"

// Driver profile statuses.
const (
	DriverActive    = "active"
	DriverInactive  = "inactive"
	DriverPending   = "pending"
	DriverSuspended = "suspended"
)

// Vehicle statuses.
const (
	VehicleAvailable   = "available"
	VehicleAssigned    = "assigned"
	VehicleMaintenance = "maintenance"
	VehicleInactive    = "inactive"
)

// Vehicle types.
const (
	VehicleTypeMotorcycle = "motorcycle"
	VehicleTypeSedan      = "sedan"
	VehicleTypeSuv        = "suv"
	VehicleTypeVan        = "van"
)

func IsValidDriverStatus(s string) bool {
	switch s {
	case DriverActive, DriverInactive, DriverPending, DriverSuspended:
		return true
	}
	return false
}

func IsValidVehicleType(t string) bool {
	switch t {
	case VehicleTypeMotorcycle, VehicleTypeSedan, VehicleTypeSuv, VehicleTypeVan:
		return true
	}
	return false
}

// DriverProfile is the driver's directory record, distinct from the user
// account. Rides reference the profile id, not the user id.
type DriverProfile struct {
	ProfileId     string    `json:"profile_id"`
	UserId        string    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	LicenseNumber string    `json:"license_number"`
	VehicleId     string    `json:"vehicle_id,omitempty"`
	VehicleType   string    `json:"vehicle_type,omitempty"`
	Status        string    `json:"status"`
	TotalTrips    int       `json:"total_trips"`
	DriverRating  float64   `json:"driver_rating"`
	IsVerified    bool      `json:"is_verified"`
}

type Vehicle struct {
	VehicleId    string    `json:"vehicle_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LicensePlate string    `json:"license_plate"`
	VehicleType  string    `json:"vehicle_type"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Status       string    `json:"status"`
}
