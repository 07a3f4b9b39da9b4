package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"rideway/internal/ride-service/core/myerrors"
	"rideway/internal/ride-service/core/services"
)

// jsonResponse writes the given data as a JSON-encoded HTTP response.
func jsonResponse(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes an error response as JSON with the specified HTTP status code.
func jsonError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  code,
	})
}

// statusFromError maps the domain error taxonomy to transport codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, myerrors.ErrRideNotFound),
		errors.Is(err, myerrors.ErrDriverNotFound),
		errors.Is(err, myerrors.ErrNoActiveRide):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrNotRideOwner),
		errors.Is(err, myerrors.ErrNotRideDriver),
		errors.Is(err, myerrors.ErrActorNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, myerrors.ErrRideTerminal),
		errors.Is(err, myerrors.ErrRideNotPending),
		errors.Is(err, myerrors.ErrRideNotCompleted),
		errors.Is(err, myerrors.ErrAlreadyRated),
		errors.Is(err, myerrors.ErrStatusConflict):
		return http.StatusConflict
	case errors.Is(err, myerrors.ErrInvalidTransition),
		errors.Is(err, services.ErrEmptyField),
		errors.Is(err, services.ErrInvalidLatitude),
		errors.Is(err, services.ErrInvalidLongitude),
		errors.Is(err, services.ErrInvalidAddress),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrInvalidEstimate),
		errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrUnknownPayment):
		return http.StatusBadRequest
	}
	return 0
}
