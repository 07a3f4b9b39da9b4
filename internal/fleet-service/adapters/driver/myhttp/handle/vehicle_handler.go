package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"rideway/internal/fleet-service/core/domain/dto"
	"rideway/internal/fleet-service/core/ports"
	"rideway/internal/mylogger"
)

type VehiclesHandler struct {
	vehiclesService ports.IVehiclesService
	log             mylogger.Logger
}

func NewVehiclesHandler(vs ports.IVehiclesService, log mylogger.Logger) *VehiclesHandler {
	return &VehiclesHandler{
		vehiclesService: vs,
		log:             log,
	}
}

func (vh *VehiclesHandler) CreateVehicle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.CreateVehicleRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		res, err := vh.vehiclesService.CreateVehicle(req)
		if err != nil {
			respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusCreated, res)
	}
}

func (vh *VehiclesHandler) GetVehicle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := vh.vehiclesService.GetVehicle(r.PathValue("vehicle_id"))
		if err != nil {
			respondErr(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, res)
	}
}
