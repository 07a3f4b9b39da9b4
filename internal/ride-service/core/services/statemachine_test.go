package services

import (
	"errors"
	"testing"
	"time"

	domain "rideway/internal/ride-service/core/domain/model"
	"rideway/internal/ride-service/core/myerrors"
)

func TestCanTransitionTable(t *testing.T) {
	tests := []struct {
		from, to domain.Status
		want     bool
	}{
		{domain.StatusPending, domain.StatusSearching, true},
		{domain.StatusPending, domain.StatusCancelled, true},
		{domain.StatusSearching, domain.StatusAwaitingDriver, true},
		{domain.StatusAwaitingDriver, domain.StatusAccepted, true},
		{domain.StatusAwaitingDriver, domain.StatusCancelled, true},
		{domain.StatusAccepted, domain.StatusPickedUp, true},
		{domain.StatusPickedUp, domain.StatusInProgress, true},
		{domain.StatusInProgress, domain.StatusCompleted, true},

		{domain.StatusPending, domain.StatusAccepted, false},
		{domain.StatusAccepted, domain.StatusInProgress, false},
		{domain.StatusCompleted, domain.StatusCancelled, false},
		{domain.StatusCancelled, domain.StatusPending, false},
		{domain.StatusInProgress, domain.StatusPickedUp, false},
	}

	for _, tc := range tests {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanActorTransitionRoles(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		from, to domain.Status
		wantErr  error
	}{
		{"rider starts search", domain.RoleRider, domain.StatusPending, domain.StatusSearching, nil},
		{"rider cancels pending", domain.RoleRider, domain.StatusPending, domain.StatusCancelled, nil},
		{"driver accepts", domain.RoleDriver, domain.StatusAwaitingDriver, domain.StatusAccepted, nil},
		{"driver declines", domain.RoleDriver, domain.StatusAwaitingDriver, domain.StatusCancelled, nil},
		{"driver picks up", domain.RoleDriver, domain.StatusAccepted, domain.StatusPickedUp, nil},
		{"driver completes", domain.RoleDriver, domain.StatusInProgress, domain.StatusCompleted, nil},

		{"rider cannot accept", domain.RoleRider, domain.StatusAwaitingDriver, domain.StatusAccepted, myerrors.ErrActorNotAllowed},
		{"rider cannot complete", domain.RoleRider, domain.StatusInProgress, domain.StatusCompleted, myerrors.ErrActorNotAllowed},
		{"driver cannot cancel pending", domain.RoleDriver, domain.StatusPending, domain.StatusCancelled, myerrors.ErrActorNotAllowed},

		{"driver backward jump", domain.RoleDriver, domain.StatusInProgress, domain.StatusPickedUp, myerrors.ErrInvalidTransition},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CanActorTransition(tc.role, tc.from, tc.to)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAdminForwardJump(t *testing.T) {
	// Administrative override allows any forward jump among the
	// non-cancelled statuses.
	forward := []struct{ from, to domain.Status }{
		{domain.StatusPending, domain.StatusCompleted},
		{domain.StatusPending, domain.StatusInProgress},
		{domain.StatusSearching, domain.StatusAccepted},
		{domain.StatusAccepted, domain.StatusCompleted},
	}
	for _, tc := range forward {
		if err := CanActorTransition(domain.RoleAdmin, tc.from, tc.to); err != nil {
			t.Errorf("admin %s -> %s: unexpected error: %v", tc.from, tc.to, err)
		}
	}

	// Backward jumps stay forbidden even for admins.
	if err := CanActorTransition(domain.RoleAdmin, domain.StatusInProgress, domain.StatusPending); !errors.Is(err, myerrors.ErrInvalidTransition) {
		t.Errorf("admin backward jump: expected ErrInvalidTransition, got %v", err)
	}

	// Admins may cancel from any non-terminal state.
	if err := CanActorTransition(domain.RoleAdmin, domain.StatusInProgress, domain.StatusCancelled); err != nil {
		t.Errorf("admin cancel: unexpected error: %v", err)
	}
}

func TestTerminalStatesReject(t *testing.T) {
	for _, from := range []domain.Status{domain.StatusCompleted, domain.StatusCancelled} {
		for _, role := range []string{domain.RoleRider, domain.RoleDriver, domain.RoleAdmin} {
			err := CanActorTransition(role, from, domain.StatusPending)
			if !errors.Is(err, myerrors.ErrRideTerminal) {
				t.Errorf("%s from %s: expected ErrRideTerminal, got %v", role, from, err)
			}
		}
	}
}

func TestApplyTransitionStampsOnce(t *testing.T) {
	ride := domain.Ride{Status: domain.StatusAwaitingDriver}

	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := ApplyTransition(&ride, domain.StatusAccepted, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.AcceptedAt == nil || !ride.AcceptedAt.Equal(first) {
		t.Fatalf("accepted_at not stamped: %v", ride.AcceptedAt)
	}

	// Re-entering the same status keeps the original stamp.
	later := first.Add(time.Hour)
	if err := ApplyTransition(&ride, domain.StatusAccepted, later); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ride.AcceptedAt.Equal(first) {
		t.Errorf("accepted_at was overwritten: %v", ride.AcceptedAt)
	}
}

func TestApplyTransitionStampsEachStatus(t *testing.T) {
	ride := domain.Ride{Status: domain.StatusPending}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	steps := []domain.Status{
		domain.StatusSearching,
		domain.StatusAwaitingDriver,
		domain.StatusAccepted,
		domain.StatusPickedUp,
		domain.StatusInProgress,
		domain.StatusCompleted,
	}
	for _, s := range steps {
		if err := ApplyTransition(&ride, s, now); err != nil {
			t.Fatalf("transition to %s: %v", s, err)
		}
	}

	if ride.AcceptedAt == nil || ride.PickedUpAt == nil || ride.StartedAt == nil || ride.CompletedAt == nil {
		t.Error("expected all lifecycle timestamps to be stamped")
	}
	if ride.CancelledAt != nil {
		t.Error("cancelled_at must stay unset on a completed ride")
	}
}

func TestApplyTransitionTerminalRejected(t *testing.T) {
	ride := domain.Ride{Status: domain.StatusCompleted}
	err := ApplyTransition(&ride, domain.StatusCancelled, time.Now())
	if !errors.Is(err, myerrors.ErrRideTerminal) {
		t.Errorf("expected ErrRideTerminal, got %v", err)
	}
}
