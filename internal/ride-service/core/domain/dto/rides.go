package dto

type EstimateRequestDto struct {
	PickupAddress        *string  `json:"pickup_address"`
	PickupLatitude       *float64 `json:"pickup_latitude"`
	PickupLongitude      *float64 `json:"pickup_longitude"`
	DestinationAddress   *string  `json:"destination_address"`
	DestinationLatitude  *float64 `json:"destination_latitude"`
	DestinationLongitude *float64 `json:"destination_longitude"`
	Category             *string  `json:"category"`
}

type FareBreakdownDto struct {
	BaseFare     int64 `json:"base_fare"`
	DistanceFare int64 `json:"distance_fare"`
	TimeFare     int64 `json:"time_fare"`
	Subtotal     int64 `json:"subtotal"`
	ServiceFee   int64 `json:"service_fee"`
	TotalFare    int64 `json:"total_fare"`
}

type EstimateResponseDto struct {
	Category                 string           `json:"category"`
	DistanceKm               float64          `json:"distance_km"`
	EstimatedDurationMinutes int64            `json:"estimated_duration_minutes"`
	DurationWindowMinMinutes int64            `json:"duration_window_min_minutes"`
	DurationWindowMaxMinutes int64            `json:"duration_window_max_minutes"`
	Fare                     FareBreakdownDto `json:"fare"`
}

type OrderRequestDto struct {
	PickupAddress        *string  `json:"pickup_address"`
	PickupLatitude       *float64 `json:"pickup_latitude"`
	PickupLongitude      *float64 `json:"pickup_longitude"`
	DestinationAddress   *string  `json:"destination_address"`
	DestinationLatitude  *float64 `json:"destination_latitude"`
	DestinationLongitude *float64 `json:"destination_longitude"`
	Category             *string  `json:"category"`

	// Estimate fields are persisted verbatim, not recomputed.
	DistanceKm               *float64 `json:"distance_km"`
	EstimatedDurationMinutes *int64   `json:"estimated_duration_minutes"`
	BaseFare                 *int64   `json:"base_fare"`
	DistanceFare             *int64   `json:"distance_fare"`
	TotalFare                *int64   `json:"total_fare"`

	PaymentMethod *string `json:"payment_method"`
}

type OrderResponseDto struct {
	RideId                   string  `json:"ride_id"`
	RideNumber               string  `json:"ride_number"`
	Status                   string  `json:"status"`
	Category                 string  `json:"category"`
	DistanceKm               float64 `json:"distance_km"`
	EstimatedDurationMinutes int64   `json:"estimated_duration_minutes"`
	TotalFare                int64   `json:"total_fare"`
}

type StatusUpdateRequestDto struct {
	Status *string `json:"status"`
	Reason *string `json:"reason"`
}

type StatusUpdateResponseDto struct {
	RideId    string `json:"ride_id"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

type RateRequestDto struct {
	Rating   *int    `json:"rating"`
	Feedback *string `json:"feedback"`
}

type RateResponseDto struct {
	RideId       string  `json:"ride_id"`
	Rating       int     `json:"rating"`
	DriverRating float64 `json:"driver_rating,omitempty"`
}

type AssignRequestDto struct {
	// Accepts a driver profile id or the owning user id; normalized to
	// the profile id before the state machine sees it.
	DriverId *string `json:"driver_id"`
}

type AssignResponseDto struct {
	RideId          string `json:"ride_id"`
	DriverProfileId string `json:"driver_profile_id"`
	Status          string `json:"status"`
	AcceptedAt      string `json:"accepted_at"`
}

type LocationDto struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RideResponseDto struct {
	RideId                   string      `json:"ride_id"`
	RideNumber               string      `json:"ride_number"`
	RiderId                  string      `json:"rider_id"`
	DriverId                 string      `json:"driver_id,omitempty"`
	Category                 string      `json:"category"`
	Status                   string      `json:"status"`
	Pickup                   LocationDto `json:"pickup"`
	Destination              LocationDto `json:"destination"`
	DistanceKm               float64     `json:"distance_km"`
	EstimatedDurationMinutes int64       `json:"estimated_duration_minutes"`
	BaseFare                 int64       `json:"base_fare"`
	DistanceFare             int64       `json:"distance_fare"`
	TotalFare                int64       `json:"total_fare"`
	PaymentMethod            string      `json:"payment_method"`
	PaymentStatus            string      `json:"payment_status"`
	RiderRating              *int        `json:"rider_rating,omitempty"`
	AcceptedAt               *string     `json:"accepted_at,omitempty"`
	PickedUpAt               *string     `json:"picked_up_at,omitempty"`
	StartedAt                *string     `json:"started_at,omitempty"`
	CompletedAt              *string     `json:"completed_at,omitempty"`
	CancelledAt              *string     `json:"cancelled_at,omitempty"`
	CancellationReason       string      `json:"cancellation_reason,omitempty"`
}
