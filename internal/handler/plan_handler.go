package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/shiva/autospecs/internal/model"
	"github.com/shiva/autospecs/internal/repository"
	"github.com/shiva/autospecs/internal/service"
)

// ─── Request DTOs ───────────────────────────────────────────

// CreatePlanBody is the JSON body for POST /api/v1/plans.
// The analysis snapshot is computed server-side at save time from the
// supplied fuel profile and distance.
type CreatePlanBody struct {
	Label        string          `json:"label"`
	Origin       model.Location  `json:"origin" validate:"required"`
	Destination  model.Location  `json:"destination" validate:"required"`
	DestAddress  string          `json:"destination_address"`
	DistanceKm   float64         `json:"distance_km" validate:"required,gt=0"`
	DurationText string          `json:"duration_text"`
	Fuel         FuelProfileBody `json:"fuel" validate:"required"`
}

// ─── PlanHandler ────────────────────────────────────────────

// PlanHandler handles saved trip-plan CRUD.
type PlanHandler struct {
	repo      *repository.TripPlanRepository
	estimator *service.TripEstimator
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(repo *repository.TripPlanRepository, estimator *service.TripEstimator) *PlanHandler {
	return &PlanHandler{repo: repo, estimator: estimator}
}

// Create handles POST /api/v1/plans
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body CreatePlanBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	analysis, err := h.estimator.Analyze(toFuelProfile(body.Fuel), body.DistanceKm)
	if err != nil {
		writeTripError(w, err)
		return
	}

	plan := &model.TripPlan{
		Label:              body.Label,
		Origin:             body.Origin,
		Destination:        body.Destination,
		DestinationAddress: body.DestAddress,
		DistanceKm:         body.DistanceKm,
		DurationText:       body.DurationText,
		Analysis:           analysis,
	}

	created, err := h.repo.Create(r.Context(), plan)
	if err != nil {
		log.Printf("[handler] create plan error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal_error",
		})
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/v1/plans?limit=
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	plans, err := h.repo.List(r.Context(), limit)
	if err != nil {
		log.Printf("[handler] list plans error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal_error",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}

// Get handles GET /api/v1/plans/{id}
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}

	plan, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// Delete handles DELETE /api/v1/plans/{id}
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writePlanError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ─── Helpers ────────────────────────────────────────────────

func planID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid id: must be an integer",
		})
		return 0, false
	}
	return id, true
}

func writePlanError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrPlanNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "plan_not_found",
		})
		return
	}
	log.Printf("[handler] plan error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal_error",
	})
}
