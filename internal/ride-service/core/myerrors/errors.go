package myerrors

import "errors"

var (
	ErrRideNotFound   = errors.New("ride not found")
	ErrDriverNotFound = errors.New("driver not found")
	ErrNoActiveRide   = errors.New("no active ride")

	ErrNotRideOwner    = errors.New("ride belongs to another rider")
	ErrNotRideDriver   = errors.New("ride is assigned to another driver")
	ErrActorNotAllowed = errors.New("actor is not allowed to perform this transition")

	ErrInvalidTransition = errors.New("illegal status transition")
	ErrRideTerminal      = errors.New("ride is in a terminal state")
	ErrRideNotPending    = errors.New("ride is not pending, driver already assigned")
	ErrRideNotCompleted  = errors.New("ride is not completed")
	ErrAlreadyRated      = errors.New("ride already rated")
	ErrStatusConflict    = errors.New("ride status changed concurrently")
)
