package messagebrokerdto

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// RideRequest is published on ride.request.{category} when a ride is
// ordered, for any matching process listening on the exchange.
type RideRequest struct {
	RideID              string   `json:"ride_id"`
	RideNumber          string   `json:"ride_number"`
	Category            string   `json:"category"`
	TotalFare           int64    `json:"total_fare"`
	DistanceKm          float64  `json:"distance_km"`
	PickupLocation      Location `json:"pickup_location"`
	DestinationLocation Location `json:"destination_location"`
}

// RideStatus is published on ride.status.{status} for every transition.
type RideStatus struct {
	RideId    string `json:"ride_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DriverID  string `json:"driver_id,omitempty"`
}

// DriverLocation is consumed from driver.location, published by the
// fleet service on every driver ping.
type DriverLocation struct {
	DriverProfileId string  `json:"driver_profile_id"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Timestamp       string  `json:"timestamp"`
}
