package service

import (
	"testing"

	"github.com/shiva/autospecs/internal/model"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(1100, 1300)
}

func TestNormalizeCapacity_RoundTrip(t *testing.T) {
	n := testNormalizer()

	// 13.2 US gallons × 3.78541 ≈ 50.0 L.
	liters, ok := n.NormalizeCapacity("13.2")
	if !ok {
		t.Fatal("NormalizeCapacity(13.2) rejected, want accepted")
	}
	if liters != 50.0 {
		t.Errorf("liters = %v, want 50.0", liters)
	}
}

func TestNormalizeCapacity_BelowThreshold(t *testing.T) {
	n := testNormalizer()

	// 1.29 gal → ≈4.9 L, below the 5 L validity floor.
	if _, ok := n.NormalizeCapacity("1.29"); ok {
		t.Error("capacity below 5 L accepted, want rejected so the default is kept")
	}
}

func TestNormalizeCapacity_Malformed(t *testing.T) {
	n := testNormalizer()

	for _, raw := range []string{"", "n/a", "abc", "  "} {
		if _, ok := n.NormalizeCapacity(raw); ok {
			t.Errorf("NormalizeCapacity(%q) accepted, want rejected", raw)
		}
	}
}

func TestNormalizeConsumption_RoundTrip(t *testing.T) {
	n := testNormalizer()

	// 28.2 MPG × 0.425144 ≈ 12.0 km/L.
	kmpl, ok := n.NormalizeConsumption("28.2", "")
	if !ok {
		t.Fatal("NormalizeConsumption(28.2) rejected, want accepted")
	}
	if kmpl != 12.0 {
		t.Errorf("kmpl = %v, want 12.0", kmpl)
	}
}

func TestNormalizeConsumption_PrefersHighway(t *testing.T) {
	n := testNormalizer()

	kmpl, ok := n.NormalizeConsumption("28.2", "18.0")
	if !ok || kmpl != 12.0 {
		t.Errorf("kmpl = %v (ok=%v), want highway-derived 12.0", kmpl, ok)
	}
}

func TestNormalizeConsumption_FallsBackToMixed(t *testing.T) {
	n := testNormalizer()

	// No highway figure: the combined figure is used instead.
	kmpl, ok := n.NormalizeConsumption("", "28.2")
	if !ok || kmpl != 12.0 {
		t.Errorf("kmpl = %v (ok=%v), want mixed-derived 12.0", kmpl, ok)
	}
}

func TestNormalizeConsumption_BelowThreshold(t *testing.T) {
	n := testNormalizer()

	// 6.8 MPG → ≈2.9 km/L, below the 3 km/L validity floor.
	if _, ok := n.NormalizeConsumption("6.8", ""); ok {
		t.Error("consumption below 3 km/L accepted, want rejected so the default is kept")
	}
}

func TestEstimatePricePerLiter(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		fuelType string
		want     int
	}{
		{"Diesel", 1300},
		{"diesel, premium", 1300},
		{"Petrol", 1100},
		{"Gasoline", 1100},
		{"", 1100},
		{"Electric", 1100},
	}
	for _, tt := range tests {
		if got := n.EstimatePricePerLiter(tt.fuelType); got != tt.want {
			t.Errorf("EstimatePricePerLiter(%q) = %d, want %d", tt.fuelType, got, tt.want)
		}
	}
}

func TestClassifyFuelType(t *testing.T) {
	tests := []struct {
		raw  string
		want model.FuelType
	}{
		{"Gasoline", model.FuelPetrol},
		{"Petrol", model.FuelPetrol},
		{"Diesel", model.FuelDiesel},
		{"Petrol / Diesel", model.FuelPetrolDiesel},
		{"Hybrid (Gasoline)", model.FuelHybrid},
		{"Electric", model.FuelElectric},
		{"", model.FuelUnknown},
		{"Hydrogen", model.FuelUnknown},
	}
	for _, tt := range tests {
		if got := ClassifyFuelType(tt.raw); got != tt.want {
			t.Errorf("ClassifyFuelType(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
