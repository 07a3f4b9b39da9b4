package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"rideway/internal/fleet-service/core/myerrors"
	"rideway/internal/fleet-service/core/services"
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
	case errors.Is(err, myerrors.ErrDriverNotFound),
		errors.Is(err, myerrors.ErrVehicleNotFound),
		errors.Is(err, myerrors.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, myerrors.ErrLicenseRegistered),
		errors.Is(err, myerrors.ErrPlateRegistered),
		errors.Is(err, myerrors.ErrVehicleNotAvailable),
		errors.Is(err, myerrors.ErrNoVehicleAssigned):
		return http.StatusConflict
	case errors.Is(err, myerrors.ErrUnknownStatus),
		errors.Is(err, myerrors.ErrUnknownVehicleType),
		errors.Is(err, myerrors.ErrUnknownCategory),
		errors.Is(err, myerrors.ErrUnknownMatchRule),
		errors.Is(err, myerrors.ErrNotDriverRole),
		errors.Is(err, services.ErrEmptyField),
		errors.Is(err, services.ErrInvalidLatitude),
		errors.Is(err, services.ErrInvalidLongitude):
		return http.StatusBadRequest
	}
	return 0
}
