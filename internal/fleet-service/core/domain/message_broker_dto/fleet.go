package messagebrokerdto

type DriverLocation struct {
	DriverProfileId string  `json:"driver_profile_id"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
}
