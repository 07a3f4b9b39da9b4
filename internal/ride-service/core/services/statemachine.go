package services

import (
	"fmt"
	"time"

	domain "rideway/internal/ride-service/core/domain/model"
	"rideway/internal/ride-service/core/myerrors"
)

type transition struct {
	From domain.Status
	To   domain.Status
}

// allowedTransitions maps every permitted transition to the roles that may
// request it. Cancellation rows for rider/admin cover every non-terminal
// state; the driver may only cancel while the ride is awaiting its
// confirmation (a decline) or already underway.
var allowedTransitions = map[transition][]string{
	{domain.StatusPending, domain.StatusSearching}: {domain.RoleRider, domain.RoleAdmin},
	{domain.StatusPending, domain.StatusCancelled}: {domain.RoleRider, domain.RoleAdmin},

	{domain.StatusSearching, domain.StatusAwaitingDriver}: {domain.RoleAdmin},
	{domain.StatusSearching, domain.StatusCancelled}:      {domain.RoleRider, domain.RoleAdmin},

	{domain.StatusAwaitingDriver, domain.StatusAccepted}:  {domain.RoleDriver},
	{domain.StatusAwaitingDriver, domain.StatusCancelled}: {domain.RoleDriver, domain.RoleRider, domain.RoleAdmin},

	{domain.StatusAccepted, domain.StatusPickedUp}:  {domain.RoleDriver, domain.RoleAdmin},
	{domain.StatusAccepted, domain.StatusCancelled}: {domain.RoleDriver, domain.RoleRider, domain.RoleAdmin},

	{domain.StatusPickedUp, domain.StatusInProgress}: {domain.RoleDriver, domain.RoleAdmin},
	{domain.StatusPickedUp, domain.StatusCancelled}:  {domain.RoleDriver, domain.RoleRider, domain.RoleAdmin},

	{domain.StatusInProgress, domain.StatusCompleted}: {domain.RoleDriver, domain.RoleAdmin},
	{domain.StatusInProgress, domain.StatusCancelled}: {domain.RoleDriver, domain.RoleRider, domain.RoleAdmin},
}

// statusOrder positions the non-cancelled statuses on the forward axis
// used by the administrative override.
var statusOrder = map[domain.Status]int{
	domain.StatusPending:        0,
	domain.StatusSearching:      1,
	domain.StatusAwaitingDriver: 2,
	domain.StatusAccepted:       3,
	domain.StatusPickedUp:       4,
	domain.StatusInProgress:     5,
	domain.StatusCompleted:      6,
}

// CanTransition reports whether from -> to is in the transition table,
// regardless of actor.
func CanTransition(from, to domain.Status) bool {
	_, ok := allowedTransitions[transition{from, to}]
	return ok
}

// CanActorTransition checks both the transition table and the actor role.
// An admin may additionally jump forward to any later status between
// pending and completed, but never out of a terminal state.
func CanActorTransition(role string, from, to domain.Status) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s", myerrors.ErrRideTerminal, from)
	}

	if roles, ok := allowedTransitions[transition{from, to}]; ok {
		for _, r := range roles {
			if r == role {
				return nil
			}
		}
		if role != domain.RoleAdmin {
			return myerrors.ErrActorNotAllowed
		}
	}

	if role == domain.RoleAdmin {
		fromIdx, okFrom := statusOrder[from]
		toIdx, okTo := statusOrder[to]
		if okFrom && okTo && toIdx > fromIdx {
			return nil
		}
		if to == domain.StatusCancelled {
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", myerrors.ErrInvalidTransition, from, to)
}

// ApplyTransition moves the ride to the target status and stamps the
// matching lifecycle timestamp. A timestamp is set only the first time its
// status is entered; re-entering via administrative override keeps the
// original value.
func ApplyTransition(ride *domain.Ride, to domain.Status, now time.Time) error {
	if ride.Status.IsTerminal() {
		return fmt.Errorf("%w: %s", myerrors.ErrRideTerminal, ride.Status)
	}
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", myerrors.ErrInvalidTransition, to)
	}

	ride.Status = to

	switch to {
	case domain.StatusAccepted:
		if ride.AcceptedAt == nil {
			t := now
			ride.AcceptedAt = &t
		}
	case domain.StatusPickedUp:
		if ride.PickedUpAt == nil {
			t := now
			ride.PickedUpAt = &t
		}
	case domain.StatusInProgress:
		if ride.StartedAt == nil {
			t := now
			ride.StartedAt = &t
		}
	case domain.StatusCompleted:
		if ride.CompletedAt == nil {
			t := now
			ride.CompletedAt = &t
		}
	case domain.StatusCancelled:
		if ride.CancelledAt == nil {
			t := now
			ride.CancelledAt = &t
		}
	}
	return nil
}
