package dto

type CreateDriverRequestDto struct {
	UserId        *string `json:"user_id"`
	LicenseNumber *string `json:"license_number"`
}

type DriverStatusRequestDto struct {
	Status *string `json:"status"`
}

type CreateVehicleRequestDto struct {
	LicensePlate *string `json:"license_plate"`
	VehicleType  *string `json:"vehicle_type"`
	Make         *string `json:"make"`
	Model        *string `json:"model"`
}

type AssignVehicleRequestDto struct {
	VehicleId *string `json:"vehicle_id"`
}

type LocationPingDto struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type DriverResponseDto struct {
	ProfileId     string  `json:"profile_id"`
	UserId        string  `json:"user_id"`
	LicenseNumber string  `json:"license_number"`
	VehicleId     string  `json:"vehicle_id,omitempty"`
	VehicleType   string  `json:"vehicle_type,omitempty"`
	Status        string  `json:"status"`
	TotalTrips    int     `json:"total_trips"`
	DriverRating  float64 `json:"driver_rating"`
	IsVerified    bool    `json:"is_verified"`
}

type VehicleResponseDto struct {
	VehicleId    string `json:"vehicle_id"`
	LicensePlate string `json:"license_plate"`
	VehicleType  string `json:"vehicle_type"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Status       string `json:"status"`
}

type MatchResponseDto struct {
	Category   string              `json:"category"`
	Rule       string              `json:"rule"`
	Candidates []DriverResponseDto `json:"candidates"`
}
