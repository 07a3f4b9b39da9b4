package websocketdto

import "encoding/json"

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type RideStatusUpdateDto struct {
	RideID     string `json:"ride_id"`
	RideNumber string `json:"ride_number"`
	Status     string `json:"status"`
	DriverId   string `json:"driver_id,omitempty"`
}

type DriverLocationUpdateDto struct {
	RideID    string  `json:"ride_id"`
	DriverId  string  `json:"driver_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
