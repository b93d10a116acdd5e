// Package service contains the core business logic for vehicle lookup
// and trip planning.
package service

import (
	"errors"
	"math"

	"github.com/shiva/autospecs/internal/model"
	"github.com/shiva/autospecs/pkg/geo"
)

// ─── Errors ─────────────────────────────────────────────────

var (
	// ErrInvalidFuelProfile is returned when consumption or tank capacity
	// is non-positive. The estimator reports this explicitly instead of
	// producing Inf/NaN results.
	ErrInvalidFuelProfile = errors.New("fuel profile has non-positive consumption or tank capacity")

	// ErrNegativeDistance is returned for a negative trip distance.
	ErrNegativeDistance = errors.New("trip distance must not be negative")
)

// ─── Constants ──────────────────────────────────────────────

const (
	// SafetyBuffer is the usable fraction of the full tank range.
	// The remaining 15% is a never-go-below reserve.
	SafetyBuffer = 0.85

	// MaxComfortableStops is the stop count up to which a trip is still
	// flagged suitable even beyond the safe range. Product heuristic.
	MaxComfortableStops = 3

	// scoreBonusStops is the stop count at or below which the score
	// bonus multiplier applies. Product heuristic.
	scoreBonusStops = 2

	// scoreBonusFactor is the bonus multiplier for low-stop trips.
	scoreBonusFactor = 1.3
)

// ─── TripEstimator ──────────────────────────────────────────

// TripEstimator computes trip suitability from a fuel profile and a
// trip distance.
//
// Analyze is a pure function: no I/O, no state, and identical inputs
// always yield identical output. Callers recompute on every input
// change rather than mutating a previous result.
type TripEstimator struct{}

// NewTripEstimator creates a trip estimator.
func NewTripEstimator() *TripEstimator {
	return &TripEstimator{}
}

// Analyze computes the TripAnalysis for the given fuel profile and
// trip distance in kilometers.
//
// Derivations:
//
//	fullRange   = capacity × consumption
//	fuelNeeded  = distance / consumption
//	tanksNeeded = ceil(fuelNeeded / capacity)
//	stopsNeeded = max(0, tanksNeeded − 1)
//	safeRange   = fullRange × 0.85
//	isSuitable  = distance ≤ safeRange OR stopsNeeded ≤ 3
//	score       = min(100, round((safeRange/distance) × 100 × bonus))
//
// A zero distance is trivially suitable (score 100). Non-positive
// consumption or capacity yields ErrInvalidFuelProfile — never Inf/NaN.
func (e *TripEstimator) Analyze(fuel model.FuelProfile, distanceKm float64) (*model.TripAnalysis, error) {
	if fuel.ConsumptionKmPerL <= 0 || fuel.TankCapacityLiters <= 0 {
		return nil, ErrInvalidFuelProfile
	}
	if distanceKm < 0 {
		return nil, ErrNegativeDistance
	}

	fullRangeKm := fuel.TankCapacityLiters * fuel.ConsumptionKmPerL
	currentRangeKm := fullRangeKm * (fuel.CurrentFuelPercent / 100)
	fuelNeededLiters := distanceKm / fuel.ConsumptionKmPerL
	fullTanksNeeded := int(math.Ceil(fuelNeededLiters / fuel.TankCapacityLiters))
	stopsNeeded := fullTanksNeeded - 1
	if stopsNeeded < 0 {
		stopsNeeded = 0
	}
	safeRangeKm := fullRangeKm * SafetyBuffer

	isSuitable := distanceKm <= safeRangeKm || stopsNeeded <= MaxComfortableStops

	return &model.TripAnalysis{
		FullRangeKm:      math.Round(fullRangeKm),
		CurrentRangeKm:   math.Round(currentRangeKm),
		FuelNeededLiters: roundTo(fuelNeededLiters, 1),
		FullTanksNeeded:  fullTanksNeeded,
		StopsNeeded:      stopsNeeded,
		FuelCost:         int(math.Round(fuelNeededLiters * float64(fuel.PricePerLiter))),
		IsSuitable:       isSuitable,
		SuitabilityScore: suitabilityScore(safeRangeKm, distanceKm, stopsNeeded),
	}, nil
}

// EstimateTrip combines the great-circle fallback distance with the
// suitability analysis for when no routed distance is available.
func (e *TripEstimator) EstimateTrip(
	fuel model.FuelProfile,
	origin, destination model.Location,
) (*model.DistanceEstimate, *model.TripAnalysis, error) {

	straightKm := geo.HaversineKm(origin, destination)
	roadKm := straightKm * geo.RoadFactor

	analysis, err := e.Analyze(fuel, roadKm)
	if err != nil {
		return nil, nil, err
	}

	driving, total := geo.TravelTime(roadKm, analysis.StopsNeeded)

	est := &model.DistanceEstimate{
		StraightLineKm:   math.Round(straightKm),
		RoadDistanceKm:   math.Round(roadKm),
		DrivingTimeHours: roundTo(driving, 1),
		TotalTimeHours:   roundTo(total, 1),
	}
	return est, analysis, nil
}

// suitabilityScore returns the clamped 0..100 score. A zero distance is
// trivially suitable rather than a division by zero.
func suitabilityScore(safeRangeKm, distanceKm float64, stopsNeeded int) int {
	if distanceKm == 0 {
		return 100
	}
	bonus := 1.0
	if stopsNeeded <= scoreBonusStops {
		bonus = scoreBonusFactor
	}
	score := int(math.Round((safeRangeKm / distanceKm) * 100 * bonus))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
