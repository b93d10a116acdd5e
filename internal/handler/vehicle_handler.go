package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/shiva/autospecs/internal/model"
	"github.com/shiva/autospecs/internal/service"
)

// VehicleHandler handles combined vehicle lookups.
type VehicleHandler struct {
	vehicleSvc *service.VehicleService
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(vehicleSvc *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

// Lookup handles GET /api/v1/vehicles/lookup?make=&model=&year=
//
// Fetches vehicle types and trims for the selection and returns the
// derived fuel profile. Upstream failures degrade to empty result sets
// plus a specs_warning field — the lookup itself never fails on them.
func (h *VehicleHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	makeName := q.Get("make")
	modelName := q.Get("model")
	if makeName == "" || modelName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "make and model are required",
		})
		return
	}

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year < 1900 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "year must be a valid model year",
		})
		return
	}

	sel := model.VehicleSelection{Year: year, Make: makeName, Model: modelName}

	lookup, err := h.vehicleSvc.Lookup(r.Context(), sel)
	if err != nil {
		log.Printf("[handler] vehicle lookup error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal_error",
		})
		return
	}

	writeJSON(w, http.StatusOK, lookup)
}
