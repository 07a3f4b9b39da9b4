package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"rideway/internal/fleet-service/core/domain/dto"
	messagebrokerdto "rideway/internal/fleet-service/core/domain/message_broker_dto"
	domain "rideway/internal/fleet-service/core/domain/model"
	"rideway/internal/fleet-service/core/myerrors"
	"rideway/internal/mylogger"
)

func TestMatchFilterRiderSearch(t *testing.T) {
	tests := []struct {
		category   string
		types      []string
		unassigned bool
	}{
		{"bicycle", nil, true},
		{"motorcycle", []string{"motorcycle"}, false},
		{"car", []string{"sedan", "suv", "van"}, false},
	}

	for _, tc := range tests {
		types, unassigned, err := matchFilter(tc.category, MatchRuleRiderSearch)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.category, err)
		}
		if unassigned != tc.unassigned {
			t.Errorf("%s: unassigned = %v, want %v", tc.category, unassigned, tc.unassigned)
		}
		if !reflect.DeepEqual(types, tc.types) {
			t.Errorf("%s: types = %v, want %v", tc.category, types, tc.types)
		}
	}
}

func TestMatchFilterAdminAssignUsesExactLabel(t *testing.T) {
	for _, category := range []string{"bicycle", "motorcycle", "car"} {
		types, unassigned, err := matchFilter(category, MatchRuleAdminAssign)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", category, err)
		}
		if unassigned {
			t.Errorf("%s: admin rule never matches on no-vehicle", category)
		}
		if !reflect.DeepEqual(types, []string{category}) {
			t.Errorf("%s: types = %v, want [%s]", category, types, category)
		}
	}
}

func TestMatchFilterRejectsUnknown(t *testing.T) {
	if _, _, err := matchFilter("rickshaw", MatchRuleRiderSearch); !errors.Is(err, myerrors.ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
	if _, _, err := matchFilter("car", "nearest_first"); !errors.Is(err, myerrors.ErrUnknownMatchRule) {
		t.Errorf("expected ErrUnknownMatchRule, got %v", err)
	}
}

// ======================= service-level tests =======================

type fakeDriversRepo struct {
	candidates []domain.DriverProfile
	gotTypes   []string
	gotLimit   int
	profiles   map[string]domain.DriverProfile

	// userRoles and vehicleStatus mirror the role and availability
	// guards the SQL layer enforces. Nil maps mean "everything passes".
	userRoles     map[string]string
	vehicleStatus map[string]string
}

func (f *fakeDriversRepo) CreateDriver(_ context.Context, userId, licenseNumber string) (domain.DriverProfile, error) {
	if f.userRoles != nil {
		role, ok := f.userRoles[userId]
		if !ok {
			return domain.DriverProfile{}, myerrors.ErrUserNotFound
		}
		if role != "DRIVER" {
			return domain.DriverProfile{}, myerrors.ErrNotDriverRole
		}
	}
	return domain.DriverProfile{ProfileId: "profile-1", UserId: userId, LicenseNumber: licenseNumber}, nil
}

func (f *fakeDriversRepo) GetDriver(_ context.Context, ref string) (domain.DriverProfile, error) {
	p, ok := f.profiles[ref]
	if !ok {
		return domain.DriverProfile{}, myerrors.ErrDriverNotFound
	}
	return p, nil
}

func (f *fakeDriversRepo) UpdateDriverStatus(_ context.Context, profileId, status string) (domain.DriverProfile, error) {
	p := f.profiles[profileId]
	p.Status = status
	f.profiles[profileId] = p
	return p, nil
}

func (f *fakeDriversRepo) AssignVehicle(_ context.Context, profileId, vehicleId string) (domain.DriverProfile, error) {
	if f.vehicleStatus != nil {
		status, ok := f.vehicleStatus[vehicleId]
		if !ok {
			return domain.DriverProfile{}, myerrors.ErrVehicleNotFound
		}
		if status != domain.VehicleAvailable {
			return domain.DriverProfile{}, myerrors.ErrVehicleNotAvailable
		}
		f.vehicleStatus[vehicleId] = domain.VehicleAssigned
	}
	p := f.profiles[profileId]
	p.VehicleId = vehicleId
	f.profiles[profileId] = p
	return p, nil
}

func (f *fakeDriversRepo) UnassignVehicle(_ context.Context, profileId string) (domain.DriverProfile, error) {
	p := f.profiles[profileId]
	if p.VehicleId == "" {
		return domain.DriverProfile{}, myerrors.ErrNoVehicleAssigned
	}
	p.VehicleId = ""
	f.profiles[profileId] = p
	return p, nil
}

func (f *fakeDriversRepo) MatchCandidates(_ context.Context, vehicleTypes []string, unassigned bool, limit int) ([]domain.DriverProfile, error) {
	f.gotTypes = vehicleTypes
	f.gotLimit = limit
	if len(f.candidates) > limit {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

type fakeVehiclesRepo struct{}

func (fakeVehiclesRepo) CreateVehicle(_ context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	v.VehicleId = "vehicle-1"
	return v, nil
}

func (fakeVehiclesRepo) GetVehicle(_ context.Context, vehicleId string) (domain.Vehicle, error) {
	return domain.Vehicle{VehicleId: vehicleId}, nil
}

type fakeLocationBroker struct {
	published []messagebrokerdto.DriverLocation
}

func (f *fakeLocationBroker) PushDriverLocation(_ context.Context, m messagebrokerdto.DriverLocation) error {
	f.published = append(f.published, m)
	return nil
}

func (f *fakeLocationBroker) IsAlive() bool { return true }
func (f *fakeLocationBroker) Close() error  { return nil }

func newFleetFixture(t *testing.T, drivers *fakeDriversRepo, broker *fakeLocationBroker) *FleetService {
	t.Helper()

	log, err := mylogger.New(mylogger.LevelError)
	if err != nil {
		t.Fatalf("cannot create logger: %v", err)
	}
	return NewFleetService(context.Background(), log, drivers, fakeVehiclesRepo{}, broker).(*FleetService)
}

func TestMatchCapsAtTen(t *testing.T) {
	repo := &fakeDriversRepo{}
	for i := 0; i < 15; i++ {
		repo.candidates = append(repo.candidates, domain.DriverProfile{ProfileId: fmt.Sprintf("profile-%d", i)})
	}
	svc := newFleetFixture(t, repo, &fakeLocationBroker{})

	res, err := svc.Match("car", MatchRuleRiderSearch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.gotLimit != MatchLimit {
		t.Errorf("expected limit %d, got %d", MatchLimit, repo.gotLimit)
	}
	if len(res.Candidates) != MatchLimit {
		t.Errorf("expected %d candidates, got %d", MatchLimit, len(res.Candidates))
	}

	// Store order is preserved, no ranking.
	for i, c := range res.Candidates {
		if want := fmt.Sprintf("profile-%d", i); c.ProfileId != want {
			t.Errorf("candidate %d: expected %s, got %s", i, want, c.ProfileId)
		}
	}
}

func TestMatchDefaultsToRiderSearch(t *testing.T) {
	repo := &fakeDriversRepo{}
	svc := newFleetFixture(t, repo, &fakeLocationBroker{})

	res, err := svc.Match("car", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rule != MatchRuleRiderSearch {
		t.Errorf("expected default rule %s, got %s", MatchRuleRiderSearch, res.Rule)
	}
	if !reflect.DeepEqual(repo.gotTypes, []string{"sedan", "suv", "van"}) {
		t.Errorf("unexpected vehicle types: %v", repo.gotTypes)
	}
}

func TestCreateDriverRejectsNonDriverUser(t *testing.T) {
	repo := &fakeDriversRepo{userRoles: map[string]string{
		"user-1": "RIDER",
	}}
	svc := newFleetFixture(t, repo, &fakeLocationBroker{})

	userId, license := "user-1", "KZ-123456"
	_, err := svc.CreateDriver(dto.CreateDriverRequestDto{UserId: &userId, LicenseNumber: &license})
	if !errors.Is(err, myerrors.ErrNotDriverRole) {
		t.Errorf("expected ErrNotDriverRole, got %v", err)
	}

	userId = "user-ghost"
	_, err = svc.CreateDriver(dto.CreateDriverRequestDto{UserId: &userId, LicenseNumber: &license})
	if !errors.Is(err, myerrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAssignVehicleTakenVehicleConflicts(t *testing.T) {
	repo := &fakeDriversRepo{
		profiles: map[string]domain.DriverProfile{
			"profile-1": {ProfileId: "profile-1", UserId: "user-1"},
			"profile-2": {ProfileId: "profile-2", UserId: "user-2"},
		},
		vehicleStatus: map[string]string{
			"vehicle-1": domain.VehicleAvailable,
		},
	}
	svc := newFleetFixture(t, repo, &fakeLocationBroker{})

	vehicleId := "vehicle-1"
	first, err := svc.AssignVehicle("profile-1", dto.AssignVehicleRequestDto{VehicleId: &vehicleId})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.VehicleId != "vehicle-1" {
		t.Fatalf("expected vehicle-1 assigned, got %q", first.VehicleId)
	}

	// The vehicle is now assigned, a second driver cannot take it.
	_, err = svc.AssignVehicle("profile-2", dto.AssignVehicleRequestDto{VehicleId: &vehicleId})
	if !errors.Is(err, myerrors.ErrVehicleNotAvailable) {
		t.Errorf("expected ErrVehicleNotAvailable, got %v", err)
	}

	vehicleId = "vehicle-ghost"
	if _, err = svc.AssignVehicle("profile-2", dto.AssignVehicleRequestDto{VehicleId: &vehicleId}); !errors.Is(err, myerrors.ErrVehicleNotFound) {
		t.Errorf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestPingLocationPublishes(t *testing.T) {
	repo := &fakeDriversRepo{profiles: map[string]domain.DriverProfile{
		"user-9": {ProfileId: "profile-1", UserId: "user-9"},
	}}
	broker := &fakeLocationBroker{}
	svc := newFleetFixture(t, repo, broker)

	lat, lng := 51.1694, 71.4491
	err := svc.PingLocation("user-9", dto.LocationPingDto{Latitude: &lat, Longitude: &lng})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(broker.published) != 1 {
		t.Fatalf("expected 1 published location, got %d", len(broker.published))
	}
	if broker.published[0].DriverProfileId != "profile-1" {
		t.Errorf("expected profile-1, got %s", broker.published[0].DriverProfileId)
	}
}

func TestPingLocationRejectsBadCoordinates(t *testing.T) {
	repo := &fakeDriversRepo{profiles: map[string]domain.DriverProfile{
		"user-9": {ProfileId: "profile-1", UserId: "user-9"},
	}}
	svc := newFleetFixture(t, repo, &fakeLocationBroker{})

	lat, lng := 91.0, 71.0
	if err := svc.PingLocation("user-9", dto.LocationPingDto{Latitude: &lat, Longitude: &lng}); !errors.Is(err, ErrInvalidLatitude) {
		t.Errorf("expected ErrInvalidLatitude, got %v", err)
	}

	lat, lng = 51.0, 181.0
	if err := svc.PingLocation("user-9", dto.LocationPingDto{Latitude: &lat, Longitude: &lng}); !errors.Is(err, ErrInvalidLongitude) {
		t.Errorf("expected ErrInvalidLongitude, got %v", err)
	}
}
