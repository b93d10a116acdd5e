package handler

import (
	"errors"
	"net/http"

	"github.com/shiva/autospecs/internal/model"
	"github.com/shiva/autospecs/internal/service"
)

// ─── Request/Response DTOs ──────────────────────────────────

// FuelProfileBody is the fuel-parameter portion of trip requests.
// CurrentFuelPercent is a pointer so an explicit 0 (empty tank) stays
// distinguishable from an omitted field (assume full tank).
type FuelProfileBody struct {
	TankCapacityLiters float64  `json:"tank_capacity_liters" validate:"required,gt=0,lte=150"`
	ConsumptionKmPerL  float64  `json:"consumption_km_per_liter" validate:"required,gt=0,lte=30"`
	CurrentFuelPercent *float64 `json:"current_fuel_percent" validate:"omitempty,gte=0,lte=100"`
	PricePerLiter      int      `json:"price_per_liter" validate:"gte=0"`
}

// AnalyzeTripBody is the JSON body for POST /api/v1/trip/analyze.
type AnalyzeTripBody struct {
	Fuel       FuelProfileBody `json:"fuel" validate:"required"`
	DistanceKm float64         `json:"distance_km" validate:"gte=0"`
}

// EstimateTripBody is the JSON body for POST /api/v1/trip/estimate.
// Used when no routed distance is available: the road distance is
// estimated from the great-circle distance between the endpoints.
type EstimateTripBody struct {
	Fuel        FuelProfileBody `json:"fuel" validate:"required"`
	Origin      model.Location  `json:"origin" validate:"required"`
	Destination model.Location  `json:"destination" validate:"required"`
}

// EstimateTripResponse pairs the fallback distance estimate with the
// suitability analysis computed from it.
type EstimateTripResponse struct {
	Estimate *model.DistanceEstimate `json:"estimate"`
	Analysis *model.TripAnalysis     `json:"analysis"`
}

// ─── TripHandler ────────────────────────────────────────────

// TripHandler handles trip suitability HTTP requests.
type TripHandler struct {
	estimator *service.TripEstimator
}

// NewTripHandler creates a new trip handler.
func NewTripHandler(estimator *service.TripEstimator) *TripHandler {
	return &TripHandler{estimator: estimator}
}

// Analyze handles POST /api/v1/trip/analyze
//
// Computes the suitability analysis for a fuel profile and a known
// (routed) distance. A fuel profile that cannot support the
// computation returns 422 rather than Inf/NaN figures.
func (h *TripHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeTripBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	analysis, err := h.estimator.Analyze(toFuelProfile(body.Fuel), body.DistanceKm)
	if err != nil {
		writeTripError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// Estimate handles POST /api/v1/trip/estimate
//
// Great-circle fallback: estimates road distance and travel time from
// the endpoints, then runs the same suitability analysis. Callers with
// a real routed distance should use Analyze instead.
func (h *TripHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var body EstimateTripBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	estimate, analysis, err := h.estimator.EstimateTrip(
		toFuelProfile(body.Fuel), body.Origin, body.Destination)
	if err != nil {
		writeTripError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EstimateTripResponse{
		Estimate: estimate,
		Analysis: analysis,
	})
}

// ─── Helpers ────────────────────────────────────────────────

func toFuelProfile(body FuelProfileBody) model.FuelProfile {
	pct := 100.0
	if body.CurrentFuelPercent != nil {
		pct = *body.CurrentFuelPercent
	}
	return model.FuelProfile{
		TankCapacityLiters: body.TankCapacityLiters,
		ConsumptionKmPerL:  body.ConsumptionKmPerL,
		CurrentFuelPercent: pct,
		PricePerLiter:      body.PricePerLiter,
	}
}

func writeTripError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidFuelProfile):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":   "invalid_fuel_profile",
			"message": "consumption and tank capacity must be positive",
		})
	case errors.Is(err, service.ErrNegativeDistance):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "distance_km must not be negative",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal_error",
		})
	}
}
