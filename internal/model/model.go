// Package model contains domain models for the vehicle lookup and
// trip planning service. TripPlan maps to the PostgreSQL schema in
// migrations/001_create_schema.up.sql; everything else is transient.
package model

import "time"

// ─── Enums ──────────────────────────────────────────────────

// FuelType classifies a vehicle's fuel system as reported by the
// specs aggregator. Upstream values are free text; Unknown covers
// anything we cannot classify.
type FuelType string

const (
	FuelPetrol       FuelType = "petrol"
	FuelDiesel       FuelType = "diesel"
	FuelHybrid       FuelType = "hybrid"
	FuelElectric     FuelType = "electric"
	FuelPetrolDiesel FuelType = "petrol/diesel"
	FuelUnknown      FuelType = "unknown"
)

// JourneyState is the lifecycle state of a live journey session.
type JourneyState string

const (
	JourneyIdle   JourneyState = "idle"
	JourneyActive JourneyState = "active"
)

// ─── Location ───────────────────────────────────────────────

// Location represents a WGS-84 geographic point (EPSG:4326).
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ─── Domain Models ──────────────────────────────────────────

// VehicleSelection identifies a vehicle by year/make/model.
type VehicleSelection struct {
	Year  int    `json:"year"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// FuelProfile holds the fuel parameters the trip estimator works from.
// Values start as configured defaults and are overwritten by normalized
// upstream specs when those pass the validity thresholds.
type FuelProfile struct {
	TankCapacityLiters float64  `json:"tank_capacity_liters"`
	ConsumptionKmPerL  float64  `json:"consumption_km_per_liter"`
	CurrentFuelPercent float64  `json:"current_fuel_percent"`
	FuelType           FuelType `json:"fuel_type"`
	PricePerLiter      int      `json:"price_per_liter"` // minor currency units
	AutoDetected       bool     `json:"auto_detected"`
}

// RoutePoints holds the selected route endpoints and the routed (or
// estimated) distance/duration between them.
type RoutePoints struct {
	Origin             *Location `json:"origin,omitempty"`
	Destination        *Location `json:"destination,omitempty"`
	DistanceKm         float64   `json:"distance_km"`
	DurationText       string    `json:"duration_text,omitempty"`
	DestinationAddress string    `json:"destination_address,omitempty"`
}

// TripAnalysis is the derived suitability record. It is a pure
// projection of FuelProfile × distance: recomputing with identical
// inputs yields identical output, and nothing mutates it in place.
type TripAnalysis struct {
	FullRangeKm      float64 `json:"full_range_km"`
	CurrentRangeKm   float64 `json:"current_range_km"`
	FuelNeededLiters float64 `json:"fuel_needed_liters"`
	FullTanksNeeded  int     `json:"full_tanks_needed"`
	StopsNeeded      int     `json:"stops_needed"`
	FuelCost         int     `json:"fuel_cost"` // minor currency units
	IsSuitable       bool    `json:"is_suitable"`
	SuitabilityScore int     `json:"suitability_score"` // 0..100
}

// DistanceEstimate is the great-circle fallback result used when no
// routed distance is available.
type DistanceEstimate struct {
	StraightLineKm   float64 `json:"straight_line_km"`
	RoadDistanceKm   float64 `json:"road_distance_km"`
	DrivingTimeHours float64 `json:"driving_time_hours"`
	TotalTimeHours   float64 `json:"total_time_hours"` // includes refuel stops
}

// JourneyStats is the live readout for an active journey session.
// Cleared when the journey stops.
type JourneyStats struct {
	SpeedKmh            float64   `json:"speed_kmh"`
	HeadingDegrees      float64   `json:"heading_degrees"`
	Position            *Location `json:"position,omitempty"`
	DistanceRemainingKm float64   `json:"distance_remaining_km"`
	DurationRemaining   string    `json:"duration_remaining"`
	LastSequence        uint64    `json:"last_sequence"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TripPlan maps to the `trip_plans` table: a saved route plus the
// analysis snapshot computed when it was saved.
type TripPlan struct {
	ID                 int64         `json:"id"`
	Label              string        `json:"label"`
	Origin             Location      `json:"origin"`
	Destination        Location      `json:"destination"`
	DestinationAddress string        `json:"destination_address,omitempty"`
	DistanceKm         float64       `json:"distance_km"`
	DurationText       string        `json:"duration_text,omitempty"`
	Analysis           *TripAnalysis `json:"analysis,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

// ─── Lookup DTOs ────────────────────────────────────────────

// VehicleTrim is the subset of a CarQuery trim record the service
// consumes. The aggregator labels Imperial values with metric keys;
// see service.Normalizer for the unit handling.
type VehicleTrim struct {
	TrimName      string `json:"model_trim"`
	EngineFuel    string `json:"model_engine_fuel"`
	FuelCapRaw    string `json:"model_fuel_cap_l"`  // actually US gallons
	MPGHighwayRaw string `json:"model_lkm_hwy"`     // actually MPG
	MPGMixedRaw   string `json:"model_lkm_mixed"`   // actually MPG
}

// VehicleLookup is the combined result of a year/make/model lookup:
// vehicle types from the registry, trims from the aggregator, and the
// fuel profile derived from the first trim.
type VehicleLookup struct {
	Selection    VehicleSelection `json:"selection"`
	VehicleTypes []VehicleType    `json:"vehicle_types"`
	Trims        []VehicleTrim    `json:"trims"`
	FuelProfile  FuelProfile      `json:"fuel_profile"`
	SpecsWarning string           `json:"specs_warning,omitempty"`
}

// VehicleType is one entry from the registry's type-by-make listing.
type VehicleType struct {
	MakeName        string `json:"MakeName"`
	VehicleTypeName string `json:"VehicleTypeName"`
}
