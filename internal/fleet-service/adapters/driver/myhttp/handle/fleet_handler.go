package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"rideway/internal/fleet-service/adapters/driver/myhttp/middleware"
	"rideway/internal/fleet-service/core/domain/dto"
	"rideway/internal/fleet-service/core/ports"
	"rideway/internal/mylogger"
)

type FleetHandler struct {
	fleetService ports.IFleetService
	log          mylogger.Logger
}

func NewFleetHandler(fs ports.IFleetService, log mylogger.Logger) *FleetHandler {
	return &FleetHandler{
		fleetService: fs,
		log:          log,
	}
}

// respondErr maps domain errors to transport codes; anything outside the
// taxonomy is an internal failure.
func respondErr(w http.ResponseWriter, err error) {
	if code := statusFromError(err); code != 0 {
		jsonError(w, code, err)
		return
	}
	jsonError(w, http.StatusInternalServerError, err)
}

func (fh *FleetHandler) CreateDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.CreateDriverRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		res, err := fh.fleetService.CreateDriver(req)
		if err != nil {
			respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (fh *FleetHandler) GetDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fh.fleetService.GetDriver(r.PathValue("driver_id"))
		if err != nil {
			respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (fh *FleetHandler) ChangeDriverStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.DriverStatusRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		res, err := fh.fleetService.ChangeDriverStatus(r.PathValue("driver_id"), req)
		if err != nil {
			respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (fh *FleetHandler) AssignVehicle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.AssignVehicleRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		res, err := fh.fleetService.AssignVehicle(r.PathValue("driver_id"), req)
		if err != nil {
			respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (fh *FleetHandler) UnassignVehicle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fh.fleetService.UnassignVehicle(r.PathValue("driver_id"))
		if err != nil {
			respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (fh *FleetHandler) Match() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		rule := r.URL.Query().Get("rule")

		res, err := fh.fleetService.Match(category, rule)
		if err != nil {
			respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (fh *FleetHandler) PingLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.LocationPingDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		userId := r.Header.Get(middleware.HeaderUserId)
		if err := fh.fleetService.PingLocation(userId, req); err != nil {
			respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusAccepted, map[string]string{"status": "published"})
	}
}
