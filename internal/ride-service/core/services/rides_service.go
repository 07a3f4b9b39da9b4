package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"rideway/internal/mylogger"
	"rideway/internal/ride-service/core/domain/dto"
	domain "rideway/internal/ride-service/core/domain/model"
	"rideway/internal/ride-service/core/myerrors"
	"rideway/internal/ride-service/core/ports"

	messagebrokerdto "rideway/internal/ride-service/core/domain/message_broker_dto"
	websocketdto "rideway/internal/ride-service/core/domain/websocket_dto"
)

const (
	repoTimeout = time.Second * 15

	MinRating = 1
	MaxRating = 5

	MaxAddressLen = 255

	activeRidesLimit = 100
)

type RidesService struct {
	ctx         context.Context
	mylog       mylogger.Logger
	fares       *FareService
	ridesRepo   ports.IRidesRepo
	drivers     ports.IDriverDirectory
	ridesBroker ports.IRidesBroker
	notify      ports.INotifyWebsocket
}

func NewRidesService(ctx context.Context,
	log mylogger.Logger,
	fares *FareService,
	ridesRepo ports.IRidesRepo,
	drivers ports.IDriverDirectory,
	ridesBroker ports.IRidesBroker,
	notify ports.INotifyWebsocket,
) ports.IRidesService {
	return &RidesService{
		ctx:         ctx,
		mylog:       log,
		fares:       fares,
		ridesRepo:   ridesRepo,
		drivers:     drivers,
		ridesBroker: ridesBroker,
		notify:      notify,
	}
}

// ======================= Estimate =======================

func (rs *RidesService) Estimate(req dto.EstimateRequestDto) (dto.EstimateResponseDto, error) {
	log := rs.mylog.Action("Estimate")

	if err := validateEstimateRequest(req); err != nil {
		return dto.EstimateResponseDto{}, err
	}

	pickup := domain.Location{Latitude: *req.PickupLatitude, Longitude: *req.PickupLongitude}
	destination := domain.Location{Latitude: *req.DestinationLatitude, Longitude: *req.DestinationLongitude}

	quote, err := rs.fares.Estimate(pickup, destination, domain.Category(*req.Category))
	if err != nil {
		log.Warn("estimate rejected", "category", *req.Category)
		return dto.EstimateResponseDto{}, fmt.Errorf("invalid category: %w", err)
	}

	return dto.EstimateResponseDto{
		Category:                 string(quote.Category),
		DistanceKm:               quote.DistanceKm,
		EstimatedDurationMinutes: quote.DurationMinutes,
		DurationWindowMinMinutes: quote.DurationMinMinutes,
		DurationWindowMaxMinutes: quote.DurationMaxMinutes,
		Fare: dto.FareBreakdownDto{
			BaseFare:     quote.BaseFare,
			DistanceFare: quote.DistanceFare,
			TimeFare:     quote.TimeFare,
			Subtotal:     quote.Subtotal,
			ServiceFee:   quote.ServiceFee,
			TotalFare:    quote.TotalFare,
		},
	}, nil
}

// ======================= Order =======================

func (rs *RidesService) OrderRide(actor domain.Actor, req dto.OrderRequestDto) (dto.OrderResponseDto, error) {
	log := rs.mylog.Action("OrderRide")

	if err := validateOrderRequest(req); err != nil {
		return dto.OrderResponseDto{}, err
	}

	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	numberOfRides, err := rs.ridesRepo.GetNumberRides(ctx)
	if err != nil {
		log.Error("cannot get number of rides", err)
		return dto.OrderResponseDto{}, err
	}
	now := time.Now()
	rideNumber := fmt.Sprintf("RIDE_%d%02d%02d_%0*d", now.Year(), now.Month(), now.Day(), 3, numberOfRides+1)

	ride := domain.Ride{
		RideNumber: rideNumber,
		RiderId:    actor.UserId,
		Category:   domain.Category(*req.Category),
		Status:     domain.StatusPending,
		Pickup: domain.Location{
			Address:   *req.PickupAddress,
			Latitude:  *req.PickupLatitude,
			Longitude: *req.PickupLongitude,
		},
		Destination: domain.Location{
			Address:   *req.DestinationAddress,
			Latitude:  *req.DestinationLatitude,
			Longitude: *req.DestinationLongitude,
		},
		// The client-supplied estimate is trusted and stored verbatim.
		DistanceKm:               *req.DistanceKm,
		EstimatedDurationMinutes: *req.EstimatedDurationMinutes,
		BaseFare:                 *req.BaseFare,
		DistanceFare:             *req.DistanceFare,
		TotalFare:                *req.TotalFare,
		PaymentMethod:            domain.PaymentMethod(*req.PaymentMethod),
		PaymentStatus:            domain.PaymentStatusPending,
	}

	log.Info("creating a ride", "ride_number", rideNumber, "rider_id", actor.UserId, "total_fare", ride.TotalFare, "distance", ride.DistanceKm)

	ctx, cancel = context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()
	rideId, err := rs.ridesRepo.CreateRide(ctx, ride)
	if err != nil {
		return dto.OrderResponseDto{}, err
	}

	requestMsg := messagebrokerdto.RideRequest{
		RideID:     rideId,
		RideNumber: rideNumber,
		Category:   string(ride.Category),
		TotalFare:  ride.TotalFare,
		DistanceKm: ride.DistanceKm,
		PickupLocation: messagebrokerdto.Location{
			Lat:     ride.Pickup.Latitude,
			Lng:     ride.Pickup.Longitude,
			Address: ride.Pickup.Address,
		},
		DestinationLocation: messagebrokerdto.Location{
			Lat:     ride.Destination.Latitude,
			Lng:     ride.Destination.Longitude,
			Address: ride.Destination.Address,
		},
	}

	if err := rs.ridesBroker.PushRideRequest(rs.ctx, requestMsg); err != nil {
		log.Error("failed to publish ride request", err)
		return dto.OrderResponseDto{}, fmt.Errorf("cannot send message to broker: %w", err)
	}

	log.Info("successfully created a ride", "ride_id", rideId)
	return dto.OrderResponseDto{
		RideId:                   rideId,
		RideNumber:               rideNumber,
		Status:                   string(domain.StatusPending),
		Category:                 string(ride.Category),
		DistanceKm:               ride.DistanceKm,
		EstimatedDurationMinutes: ride.EstimatedDurationMinutes,
		TotalFare:                ride.TotalFare,
	}, nil
}

// ======================= Reads =======================

func (rs *RidesService) GetRide(actor domain.Actor, rideId string) (dto.RideResponseDto, error) {
	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.GetRide(ctx, rideId)
	if err != nil {
		return dto.RideResponseDto{}, err
	}

	if err := rs.authorizeRead(actor, ride); err != nil {
		return dto.RideResponseDto{}, err
	}
	return rideToDto(ride), nil
}

func (rs *RidesService) ActiveRide(actor domain.Actor) (dto.RideResponseDto, error) {
	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.ActiveRideByRider(ctx, actor.UserId)
	if err != nil {
		return dto.RideResponseDto{}, err
	}
	return rideToDto(ride), nil
}

func (rs *RidesService) ListActiveRides(actor domain.Actor) ([]dto.RideResponseDto, error) {
	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	rides, err := rs.ridesRepo.ListActiveRides(ctx, activeRidesLimit)
	if err != nil {
		return nil, err
	}

	res := make([]dto.RideResponseDto, 0, len(rides))
	for _, r := range rides {
		res = append(res, rideToDto(r))
	}
	return res, nil
}

// ======================= Status transitions =======================

func (rs *RidesService) ChangeStatus(actor domain.Actor, rideId string, req dto.StatusUpdateRequestDto) (dto.StatusUpdateResponseDto, error) {
	log := rs.mylog.Action("ChangeStatus")

	if req.Status == nil || *req.Status == "" {
		return dto.StatusUpdateResponseDto{}, fmt.Errorf("invalid status: %w", ErrEmptyField)
	}
	target := domain.Status(*req.Status)
	if !target.IsValid() {
		return dto.StatusUpdateResponseDto{}, fmt.Errorf("%w: unknown status %q", myerrors.ErrInvalidTransition, *req.Status)
	}

	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}

	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.GetRide(ctx, rideId)
	if err != nil {
		return dto.StatusUpdateResponseDto{}, err
	}

	if err := rs.authorizeTransition(actor, ride, target); err != nil {
		return dto.StatusUpdateResponseDto{}, err
	}

	from := ride.Status
	now := time.Now()
	if err := ApplyTransition(&ride, target, now); err != nil {
		return dto.StatusUpdateResponseDto{}, err
	}

	ctx, cancel = context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()
	if err := rs.ridesRepo.TransitionStatus(ctx, rideId, from, target, reason); err != nil {
		log.Error("failed to persist transition", err, "ride_id", rideId, "from", from, "to", target)
		return dto.StatusUpdateResponseDto{}, err
	}

	if target == domain.StatusCompleted && ride.DriverId != "" {
		ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
		defer cancel()
		if err := rs.drivers.IncrementTotalTrips(ctx, ride.DriverId); err != nil {
			log.Error("failed to increment driver trips", err, "driver_id", ride.DriverId)
		}
	}

	rs.publishStatus(ride, target, now)

	log.Info("ride status changed", "ride_id", rideId, "from", from, "to", target)
	return dto.StatusUpdateResponseDto{
		RideId:    rideId,
		Status:    string(target),
		UpdatedAt: now.Format(time.RFC3339),
	}, nil
}

func (rs *RidesService) AcceptRide(actor domain.Actor, rideId string) (dto.StatusUpdateResponseDto, error) {
	status := string(domain.StatusAccepted)
	return rs.ChangeStatus(actor, rideId, dto.StatusUpdateRequestDto{Status: &status})
}

func (rs *RidesService) DeclineRide(actor domain.Actor, rideId string) (dto.StatusUpdateResponseDto, error) {
	status := string(domain.StatusCancelled)
	reason := "declined by driver"
	return rs.ChangeStatus(actor, rideId, dto.StatusUpdateRequestDto{Status: &status, Reason: &reason})
}

// ======================= Assignment =======================

func (rs *RidesService) AssignDriver(actor domain.Actor, rideId string, req dto.AssignRequestDto) (dto.AssignResponseDto, error) {
	log := rs.mylog.Action("AssignDriver")

	if req.DriverId == nil || *req.DriverId == "" {
		return dto.AssignResponseDto{}, fmt.Errorf("invalid driver id: %w", ErrEmptyField)
	}

	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	// Normalize any driver reference to the canonical profile id before
	// the state machine sees it.
	profile, err := rs.drivers.ResolveProfile(ctx, *req.DriverId)
	if err != nil {
		log.Warn("driver not resolvable", "driver_ref", *req.DriverId)
		return dto.AssignResponseDto{}, err
	}

	ctx, cancel = context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()
	ride, err := rs.ridesRepo.AssignDriver(ctx, rideId, profile.ID)
	if err != nil {
		return dto.AssignResponseDto{}, err
	}

	rs.publishStatus(ride, domain.StatusAwaitingDriver, time.Now())

	log.Info("driver assigned", "ride_id", rideId, "driver_profile_id", profile.ID)

	acceptedAt := ""
	if ride.AcceptedAt != nil {
		acceptedAt = ride.AcceptedAt.Format(time.RFC3339)
	}
	return dto.AssignResponseDto{
		RideId:          rideId,
		DriverProfileId: profile.ID,
		Status:          string(ride.Status),
		AcceptedAt:      acceptedAt,
	}, nil
}

// ======================= Rating =======================

func (rs *RidesService) RateRide(actor domain.Actor, rideId string, req dto.RateRequestDto) (dto.RateResponseDto, error) {
	log := rs.mylog.Action("RateRide")

	if req.Rating == nil {
		return dto.RateResponseDto{}, fmt.Errorf("invalid rating: %w", ErrEmptyField)
	}
	if *req.Rating < MinRating || *req.Rating > MaxRating {
		return dto.RateResponseDto{}, ErrInvalidRating
	}
	feedback := ""
	if req.Feedback != nil {
		feedback = *req.Feedback
	}

	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	ride, err := rs.ridesRepo.GetRide(ctx, rideId)
	if err != nil {
		return dto.RateResponseDto{}, err
	}
	if ride.RiderId != actor.UserId {
		return dto.RateResponseDto{}, myerrors.ErrNotRideOwner
	}
	if ride.Status != domain.StatusCompleted {
		return dto.RateResponseDto{}, fmt.Errorf("%w: status is %s", myerrors.ErrRideNotCompleted, ride.Status)
	}
	if ride.RiderRating != nil {
		return dto.RateResponseDto{}, myerrors.ErrAlreadyRated
	}

	ctx, cancel = context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()
	if err := rs.ridesRepo.SetRiderRating(ctx, rideId, *req.Rating, feedback); err != nil {
		return dto.RateResponseDto{}, err
	}

	res := dto.RateResponseDto{RideId: rideId, Rating: *req.Rating}

	// Rides with no assigned driver keep the rating but skip aggregation.
	if ride.DriverId != "" {
		avg, err := rs.recomputeDriverRating(ride.DriverId)
		if err != nil {
			log.Error("failed to recompute driver rating", err, "driver_id", ride.DriverId)
			return dto.RateResponseDto{}, err
		}
		res.DriverRating = avg
	}

	log.Info("ride rated", "ride_id", rideId, "rating", *req.Rating)
	return res, nil
}

// recomputeDriverRating recalculates the arithmetic mean over the
// driver's full rated history, rounded to one decimal place.
func (rs *RidesService) recomputeDriverRating(driverProfileId string) (float64, error) {
	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()

	ratings, err := rs.ridesRepo.RiderRatingsByDriver(ctx, driverProfileId)
	if err != nil {
		return 0, err
	}
	if len(ratings) == 0 {
		return 0, nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := math.Round(float64(sum)/float64(len(ratings))*10) / 10

	ctx, cancel = context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()
	if err := rs.drivers.UpdateDriverRating(ctx, driverProfileId, avg); err != nil {
		return 0, err
	}
	return avg, nil
}

// ======================= Location fan-out =======================

func (rs *RidesService) RouteDriverLocation(driverProfileId string) (string, string, error) {
	ctx, cancel := context.WithTimeout(rs.ctx, time.Second*5)
	defer cancel()

	ride, err := rs.ridesRepo.ActiveRideByDriver(ctx, driverProfileId)
	if err != nil {
		return "", "", err
	}
	return ride.RiderId, ride.ID, nil
}

// ======================= helpers =======================

func (rs *RidesService) authorizeRead(actor domain.Actor, ride domain.Ride) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleRider:
		if ride.RiderId != actor.UserId {
			return myerrors.ErrNotRideOwner
		}
		return nil
	case domain.RoleDriver:
		profile, err := rs.resolveActorProfile(actor)
		if err != nil {
			return err
		}
		if ride.DriverId == "" || ride.DriverId != profile.ID {
			return myerrors.ErrNotRideDriver
		}
		return nil
	}
	return myerrors.ErrActorNotAllowed
}

func (rs *RidesService) authorizeTransition(actor domain.Actor, ride domain.Ride, target domain.Status) error {
	switch actor.Role {
	case domain.RoleRider:
		if ride.RiderId != actor.UserId {
			return myerrors.ErrNotRideOwner
		}
	case domain.RoleDriver:
		profile, err := rs.resolveActorProfile(actor)
		if err != nil {
			return err
		}
		if ride.DriverId == "" || ride.DriverId != profile.ID {
			return myerrors.ErrNotRideDriver
		}
	case domain.RoleAdmin:
	default:
		return myerrors.ErrActorNotAllowed
	}

	return CanActorTransition(actor.Role, ride.Status, target)
}

func (rs *RidesService) resolveActorProfile(actor domain.Actor) (domain.DriverProfile, error) {
	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()
	return rs.drivers.ResolveProfile(ctx, actor.UserId)
}

func (rs *RidesService) publishStatus(ride domain.Ride, status domain.Status, now time.Time) {
	log := rs.mylog.Action("publishStatus")

	msg := messagebrokerdto.RideStatus{
		RideId:    ride.ID,
		Status:    string(status),
		Timestamp: now.Format(time.RFC3339),
		DriverID:  ride.DriverId,
	}
	ctx, cancel := context.WithTimeout(rs.ctx, repoTimeout)
	defer cancel()
	if err := rs.ridesBroker.PushRideStatus(ctx, msg); err != nil {
		log.Error("failed to publish ride status", err, "ride_id", ride.ID)
	}

	if rs.notify == nil {
		return
	}
	data, err := json.Marshal(websocketdto.RideStatusUpdateDto{
		RideID:     ride.ID,
		RideNumber: ride.RideNumber,
		Status:     string(status),
		DriverId:   ride.DriverId,
	})
	if err != nil {
		log.Error("failed to marshal ws event", err)
		return
	}
	rs.notify.NotifyRider(ride.RiderId, websocketdto.Event{
		Type: "ride_status_update",
		Data: data,
	})
}

func rideToDto(ride domain.Ride) dto.RideResponseDto {
	fmtTime := func(t *time.Time) *string {
		if t == nil {
			return nil
		}
		s := t.Format(time.RFC3339)
		return &s
	}

	return dto.RideResponseDto{
		RideId:     ride.ID,
		RideNumber: ride.RideNumber,
		RiderId:    ride.RiderId,
		DriverId:   ride.DriverId,
		Category:   string(ride.Category),
		Status:     string(ride.Status),
		Pickup: dto.LocationDto{
			Address:   ride.Pickup.Address,
			Latitude:  ride.Pickup.Latitude,
			Longitude: ride.Pickup.Longitude,
		},
		Destination: dto.LocationDto{
			Address:   ride.Destination.Address,
			Latitude:  ride.Destination.Latitude,
			Longitude: ride.Destination.Longitude,
		},
		DistanceKm:               ride.DistanceKm,
		EstimatedDurationMinutes: ride.EstimatedDurationMinutes,
		BaseFare:                 ride.BaseFare,
		DistanceFare:             ride.DistanceFare,
		TotalFare:                ride.TotalFare,
		PaymentMethod:            string(ride.PaymentMethod),
		PaymentStatus:            string(ride.PaymentStatus),
		RiderRating:              ride.RiderRating,
		AcceptedAt:               fmtTime(ride.AcceptedAt),
		PickedUpAt:               fmtTime(ride.PickedUpAt),
		StartedAt:                fmtTime(ride.StartedAt),
		CompletedAt:              fmtTime(ride.CompletedAt),
		CancelledAt:              fmtTime(ride.CancelledAt),
		CancellationReason:       ride.CancellationReason,
	}
}

// ======================= validation =======================

var (
	ErrEmptyField       = errors.New("field is empty")
	ErrInvalidLatitude  = errors.New("invalid latitude [-90, 90]")
	ErrInvalidLongitude = errors.New("invalid longitude [-180, 180]")
	ErrInvalidAddress   = errors.New("maximum 255 characters allowed")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrInvalidEstimate  = errors.New("estimate fields must be finite and non-negative")
	ErrUnknownPayment   = errors.New("unknown payment method")
)

func validateEstimateRequest(req dto.EstimateRequestDto) error {
	if err := validateLatLng(req.PickupLatitude, req.PickupLongitude); err != nil {
		return fmt.Errorf("invalid pickup coords: %w", err)
	}
	if err := validateLatLng(req.DestinationLatitude, req.DestinationLongitude); err != nil {
		return fmt.Errorf("invalid destination coords: %w", err)
	}
	if err := validateCategory(req.Category); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}
	return nil
}

func validateOrderRequest(req dto.OrderRequestDto) error {
	if err := validateLatLng(req.PickupLatitude, req.PickupLongitude); err != nil {
		return fmt.Errorf("invalid pickup coords: %w", err)
	}
	if err := validateAddress(req.PickupAddress); err != nil {
		return fmt.Errorf("invalid pickup address: %w", err)
	}
	if err := validateLatLng(req.DestinationLatitude, req.DestinationLongitude); err != nil {
		return fmt.Errorf("invalid destination coords: %w", err)
	}
	if err := validateAddress(req.DestinationAddress); err != nil {
		return fmt.Errorf("invalid destination address: %w", err)
	}
	if err := validateCategory(req.Category); err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}

	if req.DistanceKm == nil || req.EstimatedDurationMinutes == nil ||
		req.BaseFare == nil || req.DistanceFare == nil || req.TotalFare == nil {
		return fmt.Errorf("invalid estimate: %w", ErrEmptyField)
	}
	if math.IsNaN(*req.DistanceKm) || math.IsInf(*req.DistanceKm, 0) || *req.DistanceKm < 0 ||
		*req.EstimatedDurationMinutes < 0 || *req.BaseFare < 0 || *req.DistanceFare < 0 || *req.TotalFare < 0 {
		return ErrInvalidEstimate
	}

	if req.PaymentMethod == nil || *req.PaymentMethod == "" {
		return fmt.Errorf("invalid payment method: %w", ErrEmptyField)
	}
	if !domain.PaymentMethod(*req.PaymentMethod).IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownPayment, *req.PaymentMethod)
	}
	return nil
}

func validateLatLng(lat, lng *float64) error {
	if lat == nil || lng == nil {
		return ErrEmptyField
	}
	if math.IsNaN(*lat) || math.IsNaN(*lng) || math.IsInf(*lat, 0) || math.IsInf(*lng, 0) {
		return ErrEmptyField
	}
	if math.Abs(*lat) > 90 {
		return ErrInvalidLatitude
	}
	if math.Abs(*lng) > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

func validateAddress(s *string) error {
	if s == nil || *s == "" {
		return ErrEmptyField
	}
	if len(*s) > MaxAddressLen {
		return ErrInvalidAddress
	}
	return nil
}

func validateCategory(s *string) error {
	if s == nil || *s == "" {
		return ErrEmptyField
	}
	if !domain.Category(*s).IsValid() {
		return fmt.Errorf("%w: %q, allowed: %v", ErrUnknownCategory, *s,
			[]domain.Category{domain.CategoryBicycle, domain.CategoryMotorcycle, domain.CategoryCar})
	}
	return nil
}
