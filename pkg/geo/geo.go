// Package geo provides geographic utility functions for trip planning.
//
// All distance calculations use the Haversine formula on WGS-84 coordinates.
// Road distance and travel time are coarse estimates — callers should prefer
// a real routed distance/duration when one is available and fall back to
// these only when no routing service can be reached.
package geo

import (
	"math"

	"github.com/shiva/autospecs/internal/model"
)

// ─── Constants ──────────────────────────────────────────────

const (
	// EarthRadiusKm is the mean radius of Earth in kilometers.
	EarthRadiusKm = 6371.0

	// RoadFactor inflates the great-circle distance to approximate
	// actual road distance when no routed distance is available.
	RoadFactor = 1.2

	// AverageSpeedKmph is the assumed average highway driving speed.
	AverageSpeedKmph = 80.0

	// StopDurationHours is the time budgeted per refueling stop (15 min).
	StopDurationHours = 0.25
)

// ─── Distance ───────────────────────────────────────────────

// HaversineKm returns the great-circle distance between two points in kilometers.
//
// Complexity: O(1)
func HaversineKm(a, b model.Location) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// RoadDistanceKm returns the estimated road distance between two points:
// the great-circle distance inflated by RoadFactor.
func RoadDistanceKm(a, b model.Location) float64 {
	return HaversineKm(a, b) * RoadFactor
}

// ─── Travel Time ────────────────────────────────────────────

// TravelTime returns (drivingHours, totalHours) for a trip of the given
// road distance with the given number of refueling stops, assuming
// AverageSpeedKmph and StopDurationHours per stop.
func TravelTime(roadDistanceKm float64, stops int) (drivingHours, totalHours float64) {
	if stops < 0 {
		stops = 0
	}
	drivingHours = roadDistanceKm / AverageSpeedKmph
	totalHours = drivingHours + float64(stops)*StopDurationHours
	return drivingHours, totalHours
}

// ─── Helpers ────────────────────────────────────────────────

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
