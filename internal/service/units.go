package service

import (
	"strconv"
	"strings"

	"github.com/shiva/autospecs/internal/model"
)

// ─── Unit Conversion ────────────────────────────────────────
//
// The specs aggregator reports Imperial values under metric-looking keys:
// model_fuel_cap_l carries US gallons and model_lkm_* carries MPG.
// Everything downstream works in liters and km-per-liter, so raw values
// are converted here and sanity-checked before they replace defaults.

const (
	// LitersPerGallon converts US gallons to liters.
	LitersPerGallon = 3.78541

	// KmPerLiterPerMPG converts miles-per-gallon to km-per-liter.
	KmPerLiterPerMPG = 0.425144

	// MinValidCapacityLiters is the floor below which a converted tank
	// capacity is considered nonsense and the default is kept.
	MinValidCapacityLiters = 5.0

	// MinValidConsumptionKmpl is the floor below which a converted
	// consumption figure is considered nonsense and the default is kept.
	MinValidConsumptionKmpl = 3.0
)

// ─── Normalizer ─────────────────────────────────────────────

// Normalizer converts raw specification fields into normalized fuel
// parameters. Absent or malformed input never raises an error — it
// simply fails to update the caller's default.
type Normalizer struct {
	PetrolPricePerLiter int
	DieselPricePerLiter int
}

// NewNormalizer creates a normalizer with the given estimated prices
// (minor currency units per liter).
func NewNormalizer(petrolPrice, dieselPrice int) *Normalizer {
	return &Normalizer{
		PetrolPricePerLiter: petrolPrice,
		DieselPricePerLiter: dieselPrice,
	}
}

// NormalizeCapacity converts a raw capacity (US gallons) to liters.
// Returns (liters, true) only when the converted value clears the
// validity floor; otherwise (0, false) and the caller keeps its default.
func (n *Normalizer) NormalizeCapacity(rawGallons string) (float64, bool) {
	gal := parseFloat(rawGallons)
	liters := gal * LitersPerGallon
	if liters <= MinValidCapacityLiters {
		return 0, false
	}
	return roundTo(liters, 1), true
}

// NormalizeConsumption converts a raw consumption figure (MPG) to
// km-per-liter, preferring the highway figure and falling back to the
// combined figure. Returns (kmpl, true) only when the converted value
// clears the validity floor.
func (n *Normalizer) NormalizeConsumption(rawHighwayMPG, rawMixedMPG string) (float64, bool) {
	mpg := parseFloat(rawHighwayMPG)
	if mpg == 0 {
		mpg = parseFloat(rawMixedMPG)
	}
	kmpl := mpg * KmPerLiterPerMPG
	if kmpl <= MinValidConsumptionKmpl {
		return 0, false
	}
	return roundTo(kmpl, 1), true
}

// EstimatePricePerLiter maps a free-text fuel-type string to an
// estimated price per liter. Anything that isn't recognizably diesel
// gets the petrol price.
func (n *Normalizer) EstimatePricePerLiter(fuelType string) int {
	if strings.Contains(strings.ToLower(fuelType), "diesel") {
		return n.DieselPricePerLiter
	}
	return n.PetrolPricePerLiter
}

// ClassifyFuelType maps a free-text fuel-type string to a FuelType.
func ClassifyFuelType(raw string) model.FuelType {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return model.FuelUnknown
	case strings.Contains(s, "diesel") && strings.Contains(s, "petrol"),
		strings.Contains(s, "diesel") && strings.Contains(s, "gasoline"):
		return model.FuelPetrolDiesel
	case strings.Contains(s, "diesel"):
		return model.FuelDiesel
	case strings.Contains(s, "hybrid"):
		return model.FuelHybrid
	case strings.Contains(s, "electric"):
		return model.FuelElectric
	case strings.Contains(s, "petrol"), strings.Contains(s, "gasoline"), strings.Contains(s, "gas"):
		return model.FuelPetrol
	default:
		return model.FuelUnknown
	}
}

// ─── Helpers ────────────────────────────────────────────────

// parseFloat parses upstream numeric strings, tolerating blanks and
// junk the way the aggregator emits them. Malformed input yields 0.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
