package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shiva/autospecs/internal/model"
	"github.com/shiva/autospecs/internal/service"
)

// ─── Request DTOs ───────────────────────────────────────────

// StartJourneyBody is the JSON body for POST /api/v1/journeys.
type StartJourneyBody struct {
	Origin       model.Location `json:"origin" validate:"required"`
	Destination  model.Location `json:"destination" validate:"required"`
	DistanceKm   float64        `json:"distance_km" validate:"required,gt=0"`
	DurationText string         `json:"duration_text"`
	DestAddress  string         `json:"destination_address"`
}

// PositionBody is the JSON body for POST /api/v1/journeys/{id}/position.
// Speed arrives in meters/second, as position providers report it.
type PositionBody struct {
	Sequence       uint64         `json:"sequence" validate:"required,gt=0"`
	Position       model.Location `json:"position" validate:"required"`
	SpeedMPS       float64        `json:"speed_mps" validate:"gte=0"`
	HeadingDegrees float64        `json:"heading_degrees" validate:"gte=0,lte=360"`
}

// RouteBody is the JSON body for POST /api/v1/journeys/{id}/route.
type RouteBody struct {
	Sequence            uint64  `json:"sequence" validate:"required,gt=0"`
	DistanceRemainingKm float64 `json:"distance_remaining_km" validate:"gte=0"`
	DurationRemaining   string  `json:"duration_remaining"`
}

// ─── JourneyHandler ─────────────────────────────────────────

// JourneyHandler handles live journey session HTTP requests.
type JourneyHandler struct {
	journeySvc *service.JourneyService
}

// NewJourneyHandler creates a new journey handler.
func NewJourneyHandler(journeySvc *service.JourneyService) *JourneyHandler {
	return &JourneyHandler{journeySvc: journeySvc}
}

// Start handles POST /api/v1/journeys
//
// Activates a journey for an existing route. Requires origin,
// destination and a positive distance.
func (h *JourneyHandler) Start(w http.ResponseWriter, r *http.Request) {
	var body StartJourneyBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	origin := body.Origin
	dest := body.Destination
	session, err := h.journeySvc.Start(model.RoutePoints{
		Origin:             &origin,
		Destination:        &dest,
		DistanceKm:         body.DistanceKm,
		DurationText:       body.DurationText,
		DestinationAddress: body.DestAddress,
	})
	if err != nil {
		writeJourneyError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Position handles POST /api/v1/journeys/{id}/position
//
// Applies one delivery from the client's position stream. A stale
// sequence returns 409 and leaves the stats untouched.
func (h *JourneyHandler) Position(w http.ResponseWriter, r *http.Request) {
	var body PositionBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	stats, err := h.journeySvc.ApplyPosition(mux.Vars(r)["id"], service.PositionUpdate{
		Sequence:       body.Sequence,
		Position:       body.Position,
		SpeedMPS:       body.SpeedMPS,
		HeadingDegrees: body.HeadingDegrees,
	})
	if err != nil {
		writeJourneyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Route handles POST /api/v1/journeys/{id}/route
//
// Applies a fresh remaining-distance/duration reading under the same
// sequence-discard rule as position updates.
func (h *JourneyHandler) Route(w http.ResponseWriter, r *http.Request) {
	var body RouteBody
	if !decodeAndValidate(w, r, &body) {
		return
	}

	stats, err := h.journeySvc.ApplyRoute(mux.Vars(r)["id"], service.RouteUpdate{
		Sequence:            body.Sequence,
		DistanceRemainingKm: body.DistanceRemainingKm,
		DurationRemaining:   body.DurationRemaining,
	})
	if err != nil {
		writeJourneyError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Get handles GET /api/v1/journeys/{id}
func (h *JourneyHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.journeySvc.Get(mux.Vars(r)["id"])
	if err != nil {
		writeJourneyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Stop handles DELETE /api/v1/journeys/{id}
//
// The only terminal transition; stats are discarded.
func (h *JourneyHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.journeySvc.Stop(mux.Vars(r)["id"]); err != nil {
		writeJourneyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// ─── Helpers ────────────────────────────────────────────────

func writeJourneyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrJourneyNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "journey_not_found",
		})
	case errors.Is(err, service.ErrRouteIncomplete):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "route_incomplete",
			"message": "origin, destination and a positive distance are required",
		})
	case errors.Is(err, service.ErrStaleUpdate):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":   "stale_update",
			"message": "a newer update was already applied",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal_error",
		})
	}
}
