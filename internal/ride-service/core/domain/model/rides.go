package domain

import "time"

const (
	RoleRider  = "RIDER"
	RoleDriver = "DRIVER"
	RoleAdmin  = "ADMIN"
)

// Actor is the authenticated caller of an operation, resolved from the
// bearer token by the auth middleware.
type Actor struct {
	UserId string
	Role   string
}

// Status is the ride lifecycle status, persisted as a string.
type Status string

const (
	StatusPending        Status = "pending"
	StatusSearching      Status = "searching"
	StatusAwaitingDriver Status = "awaiting_driver_confirmation"
	StatusAccepted       Status = "accepted"
	StatusPickedUp       Status = "picked_up"
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSearching, StatusAwaitingDriver, StatusAccepted,
		StatusPickedUp, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Category fixes the pricing tier and the vehicle matching rule.
type Category string

const (
	CategoryBicycle    Category = "bicycle"
	CategoryMotorcycle Category = "motorcycle"
	CategoryCar        Category = "car"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryBicycle, CategoryMotorcycle, CategoryCar:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

func (p PaymentMethod) IsValid() bool {
	return p == PaymentCash || p == PaymentOnline
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Location is an address plus plain decimal-degree coordinates.
type Location struct {
	Address   string
	Latitude  float64
	Longitude float64
}

type Ride struct {
	ID          string // uuid
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RideNumber  string
	RiderId     string // uuid, immutable after creation
	DriverId    string // driver profile id, empty until assigned
	Category    Category
	Status      Status
	Pickup      Location
	Destination Location

	// Persisted verbatim from the estimate at order time.
	DistanceKm               float64
	EstimatedDurationMinutes int64

	// Fares in whole currency units.
	BaseFare     int64
	DistanceFare int64
	TotalFare    int64

	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus

	// 1..5, set at most once each.
	RiderRating  *int
	DriverRating *int
	Feedback     string

	// Lifecycle timestamps, each set the first time the status is reached.
	AcceptedAt  *time.Time
	PickedUpAt  *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	CancellationReason string
}

// DriverProfile is the ride-service view of the driver directory.
// Rides reference the profile id, not the owning user id.
type DriverProfile struct {
	ID            string // profile uuid
	UserId        string // owning user uuid
	LicenseNumber string
	VehicleId     string // empty when no vehicle assigned
	VehicleType   string
	Status        string
	IsVerified    bool
	Rating        float64
	TotalTrips    int64
}
