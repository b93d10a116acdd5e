package service

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/shiva/autospecs/internal/model"
)

func testProfile() model.FuelProfile {
	return model.FuelProfile{
		TankCapacityLiters: 50,
		ConsumptionKmPerL:  12,
		CurrentFuelPercent: 100,
		PricePerLiter:      1100,
	}
}

func TestAnalyze_SmallTrip(t *testing.T) {
	e := NewTripEstimator()

	got, err := e.Analyze(testProfile(), 100)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if got.FullRangeKm != 600 {
		t.Errorf("FullRangeKm = %v, want 600", got.FullRangeKm)
	}
	if got.FuelNeededLiters != 8.3 {
		t.Errorf("FuelNeededLiters = %v, want 8.3", got.FuelNeededLiters)
	}
	if got.FullTanksNeeded != 1 {
		t.Errorf("FullTanksNeeded = %d, want 1", got.FullTanksNeeded)
	}
	if got.StopsNeeded != 0 {
		t.Errorf("StopsNeeded = %d, want 0", got.StopsNeeded)
	}
	if !got.IsSuitable {
		t.Error("IsSuitable = false, want true")
	}
}

func TestAnalyze_LongTripNeedingStops(t *testing.T) {
	e := NewTripEstimator()

	got, err := e.Analyze(testProfile(), 1000)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// 1000/12 = 83.3 L → ceil(83.3/50) = 2 tanks → 1 stop.
	if got.FuelNeededLiters != 83.3 {
		t.Errorf("FuelNeededLiters = %v, want 83.3", got.FuelNeededLiters)
	}
	if got.FullTanksNeeded != 2 {
		t.Errorf("FullTanksNeeded = %d, want 2", got.FullTanksNeeded)
	}
	if got.StopsNeeded != 1 {
		t.Errorf("StopsNeeded = %d, want 1", got.StopsNeeded)
	}
	// 1000 km exceeds the 510 km safe range, but 1 stop ≤ 3 keeps the
	// trip suitable under the OR rule.
	if !got.IsSuitable {
		t.Error("IsSuitable = false, want true (stops ≤ 3)")
	}
	// score = round(510/1000 × 100 × 1.3) = 66, clamped ≤ 100.
	if got.SuitabilityScore != 66 {
		t.Errorf("SuitabilityScore = %d, want 66", got.SuitabilityScore)
	}
}

func TestAnalyze_CurrentRange(t *testing.T) {
	e := NewTripEstimator()
	fuel := testProfile()
	fuel.CurrentFuelPercent = 50

	got, err := e.Analyze(fuel, 100)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.CurrentRangeKm != 300 {
		t.Errorf("CurrentRangeKm = %v, want 300 (half of 600)", got.CurrentRangeKm)
	}
}

func TestAnalyze_ZeroDistance(t *testing.T) {
	e := NewTripEstimator()

	got, err := e.Analyze(testProfile(), 0)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.SuitabilityScore != 100 {
		t.Errorf("SuitabilityScore = %d, want 100 for zero distance", got.SuitabilityScore)
	}
	if !got.IsSuitable {
		t.Error("IsSuitable = false, want true for zero distance")
	}
	if got.FuelNeededLiters != 0 {
		t.Errorf("FuelNeededLiters = %v, want 0", got.FuelNeededLiters)
	}
}

func TestAnalyze_DivisionGuard(t *testing.T) {
	e := NewTripEstimator()

	for _, consumption := range []float64{0, -1} {
		fuel := testProfile()
		fuel.ConsumptionKmPerL = consumption
		_, err := e.Analyze(fuel, 100)
		if !errors.Is(err, ErrInvalidFuelProfile) {
			t.Errorf("consumption=%v: err = %v, want ErrInvalidFuelProfile", consumption, err)
		}
	}

	fuel := testProfile()
	fuel.TankCapacityLiters = 0
	if _, err := e.Analyze(fuel, 100); !errors.Is(err, ErrInvalidFuelProfile) {
		t.Errorf("capacity=0: err = %v, want ErrInvalidFuelProfile", err)
	}
}

func TestAnalyze_NegativeDistance(t *testing.T) {
	e := NewTripEstimator()
	if _, err := e.Analyze(testProfile(), -10); !errors.Is(err, ErrNegativeDistance) {
		t.Errorf("err = %v, want ErrNegativeDistance", err)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	e := NewTripEstimator()
	fuel := testProfile()
	fuel.CurrentFuelPercent = 73.5

	first, err := e.Analyze(fuel, 437.25)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := e.Analyze(fuel, 437.25)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs gave different outputs:\n%+v\n%+v", first, second)
	}
}

func TestAnalyze_MonotonicInDistance(t *testing.T) {
	e := NewTripEstimator()
	fuel := testProfile()

	prevScore := 101
	prevStops := -1
	for dist := 10.0; dist <= 5000; dist += 37.5 {
		got, err := e.Analyze(fuel, dist)
		if err != nil {
			t.Fatalf("Analyze(%v): %v", dist, err)
		}
		if got.SuitabilityScore > prevScore {
			t.Fatalf("score increased with distance: %d → %d at %v km",
				prevScore, got.SuitabilityScore, dist)
		}
		if got.StopsNeeded < prevStops {
			t.Fatalf("stops decreased with distance: %d → %d at %v km",
				prevStops, got.StopsNeeded, dist)
		}
		prevScore = got.SuitabilityScore
		prevStops = got.StopsNeeded
	}
}

func TestAnalyze_Bounds(t *testing.T) {
	e := NewTripEstimator()

	capacities := []float64{10, 50, 150}
	consumptions := []float64{5, 12, 30}
	distances := []float64{0, 1, 99.9, 600, 2500, 100000}

	for _, tank := range capacities {
		for _, cons := range consumptions {
			for _, dist := range distances {
				fuel := model.FuelProfile{
					TankCapacityLiters: tank,
					ConsumptionKmPerL:  cons,
					CurrentFuelPercent: 100,
					PricePerLiter:      1100,
				}
				got, err := e.Analyze(fuel, dist)
				if err != nil {
					t.Fatalf("Analyze(%v,%v,%v): %v", tank, cons, dist, err)
				}
				if got.SuitabilityScore < 0 || got.SuitabilityScore > 100 {
					t.Errorf("score %d out of [0,100] for cap=%v cons=%v dist=%v",
						got.SuitabilityScore, tank, cons, dist)
				}
				if got.StopsNeeded < 0 {
					t.Errorf("stops %d < 0 for cap=%v cons=%v dist=%v",
						got.StopsNeeded, tank, cons, dist)
				}
				if math.IsNaN(got.FuelNeededLiters) || math.IsInf(got.FuelNeededLiters, 0) {
					t.Errorf("non-finite fuel needed for cap=%v cons=%v dist=%v", tank, cons, dist)
				}
			}
		}
	}
}

func TestAnalyze_FuelCost(t *testing.T) {
	e := NewTripEstimator()

	got, err := e.Analyze(testProfile(), 120)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// 120/12 = 10 L × 1100 = 11000.
	if got.FuelCost != 11000 {
		t.Errorf("FuelCost = %d, want 11000", got.FuelCost)
	}
}

func TestEstimateTrip_Fallback(t *testing.T) {
	e := NewTripEstimator()
	origin := model.Location{Lat: 6.5, Lon: 3.4}
	dest := model.Location{Lat: 6.6, Lon: 3.5}

	est, analysis, err := e.EstimateTrip(testProfile(), origin, dest)
	if err != nil {
		t.Fatalf("EstimateTrip: %v", err)
	}
	if est.RoadDistanceKm <= est.StraightLineKm {
		t.Errorf("road %v must exceed straight-line %v", est.RoadDistanceKm, est.StraightLineKm)
	}
	if analysis == nil || !analysis.IsSuitable {
		t.Errorf("short hop should be suitable, got %+v", analysis)
	}
	if est.TotalTimeHours < est.DrivingTimeHours {
		t.Errorf("total time %v < driving time %v", est.TotalTimeHours, est.DrivingTimeHours)
	}
}

func TestEstimateTrip_InvalidProfile(t *testing.T) {
	e := NewTripEstimator()
	fuel := testProfile()
	fuel.ConsumptionKmPerL = 0

	_, _, err := e.EstimateTrip(fuel, model.Location{Lat: 6.5, Lon: 3.4}, model.Location{Lat: 6.6, Lon: 3.5})
	if !errors.Is(err, ErrInvalidFuelProfile) {
		t.Errorf("err = %v, want ErrInvalidFuelProfile", err)
	}
}
