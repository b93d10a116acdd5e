package geo

import (
	"math"
	"testing"

	"github.com/shiva/autospecs/internal/model"
)

func TestHaversineKm_SamePoint(t *testing.T) {
	loc := model.Location{Lat: 6.5244, Lon: 3.3792}
	got := HaversineKm(loc, loc)
	if got != 0 {
		t.Errorf("HaversineKm(same point) = %v, want 0", got)
	}
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// Lagos Island to Ikeja (~17 km)
	island := model.Location{Lat: 6.4541, Lon: 3.3947}
	ikeja := model.Location{Lat: 6.6018, Lon: 3.3515}
	got := HaversineKm(island, ikeja)
	wantMin, wantMax := 14.0, 20.0
	if got < wantMin || got > wantMax {
		t.Errorf("HaversineKm(Island→Ikeja) = %.2f km, want between %.1f and %.1f", got, wantMin, wantMax)
	}
}

func TestRoadDistanceKm_ExactInflation(t *testing.T) {
	origin := model.Location{Lat: 6.5, Lon: 3.4}
	dest := model.Location{Lat: 6.6, Lon: 3.5}

	straight := HaversineKm(origin, dest)
	road := RoadDistanceKm(origin, dest)

	if straight <= 0 {
		t.Fatalf("HaversineKm = %v, want positive", straight)
	}
	// Road estimate must exceed the straight line by exactly 20%.
	if math.Abs(road-straight*1.2) > 1e-9 {
		t.Errorf("RoadDistanceKm = %v, want %v (straight × 1.2)", road, straight*1.2)
	}
}

func TestTravelTime_NoStops(t *testing.T) {
	driving, total := TravelTime(400, 0)
	if driving != 5.0 {
		t.Errorf("driving = %v, want 5.0 (400km at 80km/h)", driving)
	}
	if total != driving {
		t.Errorf("total = %v, want equal to driving with zero stops", total)
	}
}

func TestTravelTime_WithStops(t *testing.T) {
	// 800 km at 80 km/h = 10 h driving, plus 2 stops × 15 min.
	driving, total := TravelTime(800, 2)
	if driving != 10.0 {
		t.Errorf("driving = %v, want 10.0", driving)
	}
	if total != 10.5 {
		t.Errorf("total = %v, want 10.5", total)
	}
}

func TestTravelTime_NegativeStopsClamped(t *testing.T) {
	_, total := TravelTime(80, -3)
	if total != 1.0 {
		t.Errorf("total = %v, want 1.0 (negative stops treated as zero)", total)
	}
}
