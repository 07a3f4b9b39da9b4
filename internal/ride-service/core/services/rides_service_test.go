package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rideway/internal/mylogger"
	"rideway/internal/ride-service/core/domain/dto"
	messagebrokerdto "rideway/internal/ride-service/core/domain/message_broker_dto"
	domain "rideway/internal/ride-service/core/domain/model"
	"rideway/internal/ride-service/core/myerrors"
)

// ======================= fakes =======================

type fakeRidesRepo struct {
	rides  map[string]*domain.Ride
	nextId int
}

func newFakeRidesRepo() *fakeRidesRepo {
	return &fakeRidesRepo{rides: map[string]*domain.Ride{}}
}

func (f *fakeRidesRepo) CreateRide(_ context.Context, ride domain.Ride) (string, error) {
	f.nextId++
	id := fmt.Sprintf("ride-%d", f.nextId)
	ride.ID = id
	ride.CreatedAt = time.Now()
	f.rides[id] = &ride
	return id, nil
}

func (f *fakeRidesRepo) GetRide(_ context.Context, rideId string) (domain.Ride, error) {
	r, ok := f.rides[rideId]
	if !ok {
		return domain.Ride{}, myerrors.ErrRideNotFound
	}
	return *r, nil
}

func (f *fakeRidesRepo) GetNumberRides(_ context.Context) (int64, error) {
	return int64(len(f.rides)), nil
}

func (f *fakeRidesRepo) ActiveRideByRider(_ context.Context, riderId string) (domain.Ride, error) {
	for _, r := range f.rides {
		if r.RiderId == riderId && !r.Status.IsTerminal() {
			return *r, nil
		}
	}
	return domain.Ride{}, myerrors.ErrNoActiveRide
}

func (f *fakeRidesRepo) ActiveRideByDriver(_ context.Context, driverProfileId string) (domain.Ride, error) {
	for _, r := range f.rides {
		if r.DriverId == driverProfileId && !r.Status.IsTerminal() {
			return *r, nil
		}
	}
	return domain.Ride{}, myerrors.ErrNoActiveRide
}

func (f *fakeRidesRepo) ListActiveRides(_ context.Context, limit int) ([]domain.Ride, error) {
	var rides []domain.Ride
	for _, r := range f.rides {
		if !r.Status.IsTerminal() && len(rides) < limit {
			rides = append(rides, *r)
		}
	}
	return rides, nil
}

func (f *fakeRidesRepo) TransitionStatus(_ context.Context, rideId string, from, to domain.Status, reason string) error {
	r, ok := f.rides[rideId]
	if !ok {
		return myerrors.ErrRideNotFound
	}
	if r.Status != from {
		if r.Status.IsTerminal() {
			return fmt.Errorf("%w: %s", myerrors.ErrRideTerminal, r.Status)
		}
		return fmt.Errorf("%w: expected %s, found %s", myerrors.ErrStatusConflict, from, r.Status)
	}
	if err := ApplyTransition(r, to, time.Now()); err != nil {
		return err
	}
	if to == domain.StatusCancelled && reason != "" {
		r.CancellationReason = reason
	}
	return nil
}

func (f *fakeRidesRepo) AssignDriver(_ context.Context, rideId, driverProfileId string) (domain.Ride, error) {
	r, ok := f.rides[rideId]
	if !ok {
		return domain.Ride{}, myerrors.ErrRideNotFound
	}
	if r.Status != domain.StatusPending {
		return domain.Ride{}, fmt.Errorf("%w: status is %s", myerrors.ErrRideNotPending, r.Status)
	}
	r.DriverId = driverProfileId
	r.Status = domain.StatusAwaitingDriver
	if r.AcceptedAt == nil {
		now := time.Now()
		r.AcceptedAt = &now
	}
	return *r, nil
}

func (f *fakeRidesRepo) SetRiderRating(_ context.Context, rideId string, rating int, feedback string) error {
	r, ok := f.rides[rideId]
	if !ok {
		return myerrors.ErrRideNotFound
	}
	if r.RiderRating != nil {
		return myerrors.ErrAlreadyRated
	}
	if r.Status != domain.StatusCompleted {
		return fmt.Errorf("%w: status is %s", myerrors.ErrRideNotCompleted, r.Status)
	}
	r.RiderRating = &rating
	r.Feedback = feedback
	return nil
}

func (f *fakeRidesRepo) RiderRatingsByDriver(_ context.Context, driverProfileId string) ([]int, error) {
	var ratings []int
	for _, r := range f.rides {
		if r.DriverId == driverProfileId && r.RiderRating != nil {
			ratings = append(ratings, *r.RiderRating)
		}
	}
	return ratings, nil
}

type fakeDriverDirectory struct {
	profiles map[string]domain.DriverProfile // keyed by profile id and user id
	ratings  map[string]float64
	trips    map[string]int
}

func newFakeDriverDirectory() *fakeDriverDirectory {
	return &fakeDriverDirectory{
		profiles: map[string]domain.DriverProfile{},
		ratings:  map[string]float64{},
		trips:    map[string]int{},
	}
}

func (f *fakeDriverDirectory) addProfile(p domain.DriverProfile) {
	f.profiles[p.ID] = p
	f.profiles[p.UserId] = p
}

func (f *fakeDriverDirectory) ResolveProfile(_ context.Context, driverRef string) (domain.DriverProfile, error) {
	p, ok := f.profiles[driverRef]
	if !ok {
		return domain.DriverProfile{}, myerrors.ErrDriverNotFound
	}
	return p, nil
}

func (f *fakeDriverDirectory) UpdateDriverRating(_ context.Context, driverProfileId string, rating float64) error {
	f.ratings[driverProfileId] = rating
	return nil
}

func (f *fakeDriverDirectory) IncrementTotalTrips(_ context.Context, driverProfileId string) error {
	f.trips[driverProfileId]++
	return nil
}

type fakeBroker struct {
	requests []messagebrokerdto.RideRequest
	statuses []messagebrokerdto.RideStatus
}

func (f *fakeBroker) PushRideRequest(_ context.Context, m messagebrokerdto.RideRequest) error {
	f.requests = append(f.requests, m)
	return nil
}

func (f *fakeBroker) PushRideStatus(_ context.Context, m messagebrokerdto.RideStatus) error {
	f.statuses = append(f.statuses, m)
	return nil
}

func (f *fakeBroker) IsAlive() bool { return true }
func (f *fakeBroker) Close() error  { return nil }

// ======================= fixture =======================

type fixture struct {
	svc     *RidesService
	repo    *fakeRidesRepo
	drivers *fakeDriverDirectory
	broker  *fakeBroker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, err := mylogger.New(mylogger.LevelError)
	if err != nil {
		t.Fatalf("cannot create logger: %v", err)
	}

	repo := newFakeRidesRepo()
	drivers := newFakeDriverDirectory()
	broker := &fakeBroker{}

	svc := NewRidesService(
		context.Background(),
		log,
		NewFareService(DefaultTariffs()),
		repo,
		drivers,
		broker,
		nil,
	).(*RidesService)

	return &fixture{svc: svc, repo: repo, drivers: drivers, broker: broker}
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64     { return &i }
func intPtr(i int) *int         { return &i }

func orderRequest() dto.OrderRequestDto {
	return dto.OrderRequestDto{
		PickupAddress:            strPtr("Mangilik El 55"),
		PickupLatitude:           f64Ptr(51.09),
		PickupLongitude:          f64Ptr(71.41),
		DestinationAddress:       strPtr("Turan 37"),
		DestinationLatitude:      f64Ptr(51.12),
		DestinationLongitude:     f64Ptr(71.43),
		Category:                 strPtr("car"),
		DistanceKm:               f64Ptr(10),
		EstimatedDurationMinutes: i64Ptr(20),
		BaseFare:                 i64Ptr(500),
		DistanceFare:             i64Ptr(1500),
		TotalFare:                i64Ptr(2640),
		PaymentMethod:            strPtr("cash"),
	}
}

func (fx *fixture) orderRide(t *testing.T, riderId string) string {
	t.Helper()
	res, err := fx.svc.OrderRide(domain.Actor{UserId: riderId, Role: domain.RoleRider}, orderRequest())
	if err != nil {
		t.Fatalf("order ride: %v", err)
	}
	return res.RideId
}

// ======================= tests =======================

func TestOrderRideStartsPending(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.svc.OrderRide(domain.Actor{UserId: "rider-1", Role: domain.RoleRider}, orderRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != string(domain.StatusPending) {
		t.Errorf("expected pending, got %s", res.Status)
	}

	ride := fx.repo.rides[res.RideId]
	if ride.DriverId != "" {
		t.Error("new ride must have no driver")
	}
	if ride.AcceptedAt != nil || ride.PickedUpAt != nil || ride.StartedAt != nil ||
		ride.CompletedAt != nil || ride.CancelledAt != nil {
		t.Error("new ride must have no lifecycle timestamps")
	}
	if len(fx.broker.requests) != 1 {
		t.Errorf("expected 1 ride request published, got %d", len(fx.broker.requests))
	}
}

func TestOrderRideRejectsBadCoordinates(t *testing.T) {
	fx := newFixture(t)

	req := orderRequest()
	req.PickupLatitude = f64Ptr(91)

	if _, err := fx.svc.OrderRide(domain.Actor{UserId: "rider-1", Role: domain.RoleRider}, req); err == nil {
		t.Error("expected validation error for latitude out of range")
	}
}

func TestAssignDriverNormalizesUserIdRef(t *testing.T) {
	fx := newFixture(t)
	fx.drivers.addProfile(domain.DriverProfile{ID: "profile-1", UserId: "user-9"})
	rideId := fx.orderRide(t, "rider-1")

	admin := domain.Actor{UserId: "admin-1", Role: domain.RoleAdmin}
	res, err := fx.svc.AssignDriver(admin, rideId, dto.AssignRequestDto{DriverId: strPtr("user-9")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DriverProfileId != "profile-1" {
		t.Errorf("expected profile-1, got %s", res.DriverProfileId)
	}
	if res.Status != string(domain.StatusAwaitingDriver) {
		t.Errorf("expected awaiting_driver_confirmation, got %s", res.Status)
	}
}

func TestAssignDriverOnlyFromPending(t *testing.T) {
	fx := newFixture(t)
	fx.drivers.addProfile(domain.DriverProfile{ID: "profile-1", UserId: "user-9"})
	fx.drivers.addProfile(domain.DriverProfile{ID: "profile-2", UserId: "user-10"})
	rideId := fx.orderRide(t, "rider-1")

	admin := domain.Actor{UserId: "admin-1", Role: domain.RoleAdmin}
	if _, err := fx.svc.AssignDriver(admin, rideId, dto.AssignRequestDto{DriverId: strPtr("profile-1")}); err != nil {
		t.Fatalf("first assignment failed: %v", err)
	}

	// Second assignment on a non-pending ride must conflict.
	_, err := fx.svc.AssignDriver(admin, rideId, dto.AssignRequestDto{DriverId: strPtr("profile-2")})
	if !errors.Is(err, myerrors.ErrRideNotPending) {
		t.Errorf("expected ErrRideNotPending, got %v", err)
	}
}

func TestChangeStatusFullLifecycle(t *testing.T) {
	fx := newFixture(t)
	fx.drivers.addProfile(domain.DriverProfile{ID: "profile-1", UserId: "user-9"})
	rideId := fx.orderRide(t, "rider-1")

	admin := domain.Actor{UserId: "admin-1", Role: domain.RoleAdmin}
	driver := domain.Actor{UserId: "user-9", Role: domain.RoleDriver}

	if _, err := fx.svc.AssignDriver(admin, rideId, dto.AssignRequestDto{DriverId: strPtr("profile-1")}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := fx.svc.AcceptRide(driver, rideId); err != nil {
		t.Fatalf("accept: %v", err)
	}
	for _, status := range []string{"picked_up", "in_progress", "completed"} {
		if _, err := fx.svc.ChangeStatus(driver, rideId, dto.StatusUpdateRequestDto{Status: strPtr(status)}); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	ride := fx.repo.rides[rideId]
	if ride.Status != domain.StatusCompleted {
		t.Errorf("expected completed, got %s", ride.Status)
	}
	if fx.drivers.trips["profile-1"] != 1 {
		t.Errorf("expected 1 trip counted, got %d", fx.drivers.trips["profile-1"])
	}
}

func TestChangeStatusOnCancelledRideConflicts(t *testing.T) {
	fx := newFixture(t)
	rideId := fx.orderRide(t, "rider-1")

	rider := domain.Actor{UserId: "rider-1", Role: domain.RoleRider}
	if _, err := fx.svc.ChangeStatus(rider, rideId, dto.StatusUpdateRequestDto{Status: strPtr("cancelled")}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := fx.svc.ChangeStatus(rider, rideId, dto.StatusUpdateRequestDto{Status: strPtr("searching")})
	if !errors.Is(err, myerrors.ErrRideTerminal) {
		t.Errorf("expected ErrRideTerminal, got %v", err)
	}
}

func TestChangeStatusRejectsForeignRider(t *testing.T) {
	fx := newFixture(t)
	rideId := fx.orderRide(t, "rider-1")

	stranger := domain.Actor{UserId: "rider-2", Role: domain.RoleRider}
	_, err := fx.svc.ChangeStatus(stranger, rideId, dto.StatusUpdateRequestDto{Status: strPtr("cancelled")})
	if !errors.Is(err, myerrors.ErrNotRideOwner) {
		t.Errorf("expected ErrNotRideOwner, got %v", err)
	}
}

func TestDeclineRideRecordsReason(t *testing.T) {
	fx := newFixture(t)
	fx.drivers.addProfile(domain.DriverProfile{ID: "profile-1", UserId: "user-9"})
	rideId := fx.orderRide(t, "rider-1")

	admin := domain.Actor{UserId: "admin-1", Role: domain.RoleAdmin}
	if _, err := fx.svc.AssignDriver(admin, rideId, dto.AssignRequestDto{DriverId: strPtr("profile-1")}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	driver := domain.Actor{UserId: "user-9", Role: domain.RoleDriver}
	if _, err := fx.svc.DeclineRide(driver, rideId); err != nil {
		t.Fatalf("decline: %v", err)
	}

	ride := fx.repo.rides[rideId]
	if ride.Status != domain.StatusCancelled {
		t.Errorf("expected cancelled, got %s", ride.Status)
	}
	if ride.CancellationReason != "declined by driver" {
		t.Errorf("unexpected reason: %q", ride.CancellationReason)
	}
}

func TestRateRideOnlyWhenCompleted(t *testing.T) {
	fx := newFixture(t)
	rideId := fx.orderRide(t, "rider-1")

	rider := domain.Actor{UserId: "rider-1", Role: domain.RoleRider}
	_, err := fx.svc.RateRide(rider, rideId, dto.RateRequestDto{Rating: intPtr(5)})
	if !errors.Is(err, myerrors.ErrRideNotCompleted) {
		t.Errorf("expected ErrRideNotCompleted, got %v", err)
	}
}

func TestRateRideTwiceConflicts(t *testing.T) {
	fx := newFixture(t)
	rideId := fx.orderRide(t, "rider-1")
	fx.repo.rides[rideId].Status = domain.StatusCompleted

	rider := domain.Actor{UserId: "rider-1", Role: domain.RoleRider}
	if _, err := fx.svc.RateRide(rider, rideId, dto.RateRequestDto{Rating: intPtr(4)}); err != nil {
		t.Fatalf("first rating: %v", err)
	}

	_, err := fx.svc.RateRide(rider, rideId, dto.RateRequestDto{Rating: intPtr(5)})
	if !errors.Is(err, myerrors.ErrAlreadyRated) {
		t.Errorf("expected ErrAlreadyRated, got %v", err)
	}
}

func TestRateRideRecomputesDriverMean(t *testing.T) {
	fx := newFixture(t)
	fx.drivers.addProfile(domain.DriverProfile{ID: "profile-1", UserId: "user-9"})

	rider := domain.Actor{UserId: "rider-1", Role: domain.RoleRider}

	// Two already-rated completed rides plus the one rated now:
	// mean of [4, 5, 3] = 4.0
	for _, r := range []int{4, 5} {
		id := fx.orderRide(t, "rider-1")
		ride := fx.repo.rides[id]
		ride.Status = domain.StatusCompleted
		ride.DriverId = "profile-1"
		rating := r
		ride.RiderRating = &rating
	}

	rideId := fx.orderRide(t, "rider-1")
	fx.repo.rides[rideId].Status = domain.StatusCompleted
	fx.repo.rides[rideId].DriverId = "profile-1"

	res, err := fx.svc.RateRide(rider, rideId, dto.RateRequestDto{Rating: intPtr(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DriverRating != 4.0 {
		t.Errorf("expected mean 4.0, got %v", res.DriverRating)
	}
	if fx.drivers.ratings["profile-1"] != 4.0 {
		t.Errorf("expected persisted mean 4.0, got %v", fx.drivers.ratings["profile-1"])
	}
}

func TestRateRideRoundsToOneDecimal(t *testing.T) {
	fx := newFixture(t)
	fx.drivers.addProfile(domain.DriverProfile{ID: "profile-1", UserId: "user-9"})

	rider := domain.Actor{UserId: "rider-1", Role: domain.RoleRider}

	// mean of [5, 4, 4] = 4.333... -> 4.3
	for _, r := range []int{5, 4} {
		id := fx.orderRide(t, "rider-1")
		ride := fx.repo.rides[id]
		ride.Status = domain.StatusCompleted
		ride.DriverId = "profile-1"
		rating := r
		ride.RiderRating = &rating
	}

	rideId := fx.orderRide(t, "rider-1")
	fx.repo.rides[rideId].Status = domain.StatusCompleted
	fx.repo.rides[rideId].DriverId = "profile-1"

	res, err := fx.svc.RateRide(rider, rideId, dto.RateRequestDto{Rating: intPtr(4)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DriverRating != 4.3 {
		t.Errorf("expected 4.3, got %v", res.DriverRating)
	}
}

func TestRateRideWithoutDriverSkipsAggregation(t *testing.T) {
	fx := newFixture(t)
	rideId := fx.orderRide(t, "rider-1")
	fx.repo.rides[rideId].Status = domain.StatusCompleted

	rider := domain.Actor{UserId: "rider-1", Role: domain.RoleRider}
	res, err := fx.svc.RateRide(rider, rideId, dto.RateRequestDto{Rating: intPtr(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DriverRating != 0 {
		t.Errorf("expected no driver rating, got %v", res.DriverRating)
	}
}

func TestRateRideRejectsOutOfRange(t *testing.T) {
	fx := newFixture(t)
	rideId := fx.orderRide(t, "rider-1")
	fx.repo.rides[rideId].Status = domain.StatusCompleted

	rider := domain.Actor{UserId: "rider-1", Role: domain.RoleRider}
	for _, bad := range []int{0, 6, -1} {
		if _, err := fx.svc.RateRide(rider, rideId, dto.RateRequestDto{Rating: intPtr(bad)}); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", bad, err)
		}
	}
}

func TestRouteDriverLocation(t *testing.T) {
	fx := newFixture(t)
	fx.drivers.addProfile(domain.DriverProfile{ID: "profile-1", UserId: "user-9"})
	rideId := fx.orderRide(t, "rider-1")
	fx.repo.rides[rideId].DriverId = "profile-1"
	fx.repo.rides[rideId].Status = domain.StatusAccepted

	riderId, gotRideId, err := fx.svc.RouteDriverLocation("profile-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if riderId != "rider-1" || gotRideId != rideId {
		t.Errorf("expected rider-1/%s, got %s/%s", rideId, riderId, gotRideId)
	}

	if _, _, err := fx.svc.RouteDriverLocation("profile-none"); !errors.Is(err, myerrors.ErrNoActiveRide) {
		t.Errorf("expected ErrNoActiveRide, got %v", err)
	}
}

func TestActiveRideByRider(t *testing.T) {
	fx := newFixture(t)
	rideId := fx.orderRide(t, "rider-1")

	rider := domain.Actor{UserId: "rider-1", Role: domain.RoleRider}
	res, err := fx.svc.ActiveRide(rider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RideId != rideId {
		t.Errorf("expected %s, got %s", rideId, res.RideId)
	}

	fx.repo.rides[rideId].Status = domain.StatusCancelled
	if _, err := fx.svc.ActiveRide(rider); !errors.Is(err, myerrors.ErrNoActiveRide) {
		t.Errorf("expected ErrNoActiveRide, got %v", err)
	}
}
