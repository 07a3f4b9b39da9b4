package handle

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rideway/internal/ride-service/core/myerrors"
	"rideway/internal/ride-service/core/services"
)

func TestRespondErrStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ride not found", myerrors.ErrRideNotFound, http.StatusNotFound},
		{"no active ride", myerrors.ErrNoActiveRide, http.StatusNotFound},
		{"foreign rider", myerrors.ErrNotRideOwner, http.StatusForbidden},
		{"actor not allowed", myerrors.ErrActorNotAllowed, http.StatusForbidden},
		{"already rated", myerrors.ErrAlreadyRated, http.StatusConflict},
		{"lost race", fmt.Errorf("%w: expected pending", myerrors.ErrStatusConflict), http.StatusConflict},
		{"illegal transition", fmt.Errorf("%w: pending -> accepted", myerrors.ErrInvalidTransition), http.StatusBadRequest},
		{"bad latitude", fmt.Errorf("invalid pickup coords: %w", services.ErrInvalidLatitude), http.StatusBadRequest},
		{"bad rating", services.ErrInvalidRating, http.StatusBadRequest},
		{"unknown category", fmt.Errorf("invalid category: %w", services.ErrUnknownCategory), http.StatusBadRequest},
		{"unknown payment method", fmt.Errorf("%w: %q", services.ErrUnknownPayment, "barter"), http.StatusBadRequest},

		{"raw db error", errors.New("failed to connect to `host=db`"), http.StatusInternalServerError},
		{"broker down", fmt.Errorf("cannot send message to broker: %w", errors.New("channel closed")), http.StatusInternalServerError},
	}

	rh := &RidesHandler{}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rh.respondErr(rec, tc.err)
			if rec.Code != tc.want {
				t.Errorf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
