package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"rideway/internal/mylogger"
	"rideway/internal/ride-service/adapters/driver/myhttp/middleware"
	"rideway/internal/ride-service/core/domain/dto"
	domain "rideway/internal/ride-service/core/domain/model"
	"rideway/internal/ride-service/core/ports"
)

type RidesHandler struct {
	ridesService ports.IRidesService
	log          mylogger.Logger
}

func NewRidesHandler(rs ports.IRidesService, log mylogger.Logger) *RidesHandler {
	return &RidesHandler{
		ridesService: rs,
		log:          log,
	}
}

func actorFromRequest(r *http.Request) domain.Actor {
	return domain.Actor{
		UserId: r.Header.Get(middleware.HeaderUserId),
		Role:   r.Header.Get(middleware.HeaderRole),
	}
}

// respondErr maps domain errors to transport codes; anything outside the
// taxonomy is an internal failure.
func (rh *RidesHandler) respondErr(w http.ResponseWriter, err error) {
	if code := statusFromError(err); code != 0 {
		jsonError(w, code, err)
		return
	}
	jsonError(w, http.StatusInternalServerError, err)
}

func (rh *RidesHandler) Estimate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.EstimateRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		res, err := rh.ridesService.Estimate(req)
		if err != nil {
			rh.respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) OrderRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.OrderRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		res, err := rh.ridesService.OrderRide(actorFromRequest(r), req)
		if err != nil {
			rh.respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (rh *RidesHandler) GetRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideId := r.PathValue("ride_id")

		res, err := rh.ridesService.GetRide(actorFromRequest(r), rideId)
		if err != nil {
			rh.respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) ActiveRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := rh.ridesService.ActiveRide(actorFromRequest(r))
		if err != nil {
			rh.respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) ChangeStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideId := r.PathValue("ride_id")

		req := dto.StatusUpdateRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		res, err := rh.ridesService.ChangeStatus(actorFromRequest(r), rideId, req)
		if err != nil {
			rh.respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) AcceptRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideId := r.PathValue("ride_id")

		res, err := rh.ridesService.AcceptRide(actorFromRequest(r), rideId)
		if err != nil {
			rh.respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) DeclineRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideId := r.PathValue("ride_id")

		res, err := rh.ridesService.DeclineRide(actorFromRequest(r), rideId)
		if err != nil {
			rh.respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) RateRide() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideId := r.PathValue("ride_id")

		req := dto.RateRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		res, err := rh.ridesService.RateRide(actorFromRequest(r), rideId, req)
		if err != nil {
			rh.respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) AssignDriver() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rideId := r.PathValue("ride_id")

		req := dto.AssignRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		res, err := rh.ridesService.AssignDriver(actorFromRequest(r), rideId, req)
		if err != nil {
			rh.respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}

func (rh *RidesHandler) ListActiveRides() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := rh.ridesService.ListActiveRides(actorFromRequest(r))
		if err != nil {
			rh.respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
