package handle

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rideway/internal/fleet-service/core/myerrors"
	"rideway/internal/fleet-service/core/services"
)

func TestRespondErrStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"driver not found", myerrors.ErrDriverNotFound, http.StatusNotFound},
		{"user not found", myerrors.ErrUserNotFound, http.StatusNotFound},
		{"vehicle taken", myerrors.ErrVehicleNotAvailable, http.StatusConflict},
		{"duplicate plate", myerrors.ErrPlateRegistered, http.StatusConflict},
		{"non-driver user", myerrors.ErrNotDriverRole, http.StatusBadRequest},
		{"unknown category", myerrors.ErrUnknownCategory, http.StatusBadRequest},
		{"bad latitude", services.ErrInvalidLatitude, http.StatusBadRequest},
		{"missing field", services.ErrEmptyField, http.StatusBadRequest},

		{"raw db error", errors.New("failed to connect to `host=db`"), http.StatusInternalServerError},
		{"broker down", fmt.Errorf("cannot publish driver location: %w", errors.New("channel closed")), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondErr(rec, tc.err)
			if rec.Code != tc.want {
				t.Errorf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
