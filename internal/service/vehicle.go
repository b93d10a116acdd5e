package service

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"

	"github.com/shiva/autospecs/internal/model"
)

// ─── Ports ──────────────────────────────────────────────────
//
// The lookup service depends on capabilities, not concrete clients, so
// the computational core stays testable without network or Redis.

// TrimsFetcher fetches trim specifications from the specs aggregator.
type TrimsFetcher interface {
	GetTrims(ctx context.Context, makeName, modelName, year string) (json.RawMessage, error)
}

// TypesFetcher fetches vehicle types from the registry.
// The registry only supports lookup by make.
type TypesFetcher interface {
	GetVehicleTypesForMake(ctx context.Context, makeName string) (json.RawMessage, error)
}

// PayloadCache caches raw upstream payloads.
type PayloadCache interface {
	Get(ctx context.Context, source, makeName, modelName, year string) (json.RawMessage, bool)
	Set(ctx context.Context, source, makeName, modelName, year string, payload json.RawMessage)
}

// ─── VehicleService ─────────────────────────────────────────

// VehicleService performs the combined year/make/model lookup: vehicle
// types from the registry, trims from the aggregator, and a fuel
// profile derived from the first trim.
//
// Both upstream fetches run concurrently and fail independently — a
// dead registry still yields trims and a fuel profile, and vice versa.
// Failures surface as empty result sets plus an advisory warning,
// never as a lookup error.
type VehicleService struct {
	trims      TrimsFetcher
	types      TypesFetcher
	cache      PayloadCache
	normalizer *Normalizer

	defaultCapacityL   float64
	defaultConsumption float64
}

// NewVehicleService creates a lookup service. cache may be nil.
func NewVehicleService(
	trims TrimsFetcher,
	types TypesFetcher,
	cache PayloadCache,
	normalizer *Normalizer,
	defaultCapacityL, defaultConsumptionKmpl float64,
) *VehicleService {
	return &VehicleService{
		trims:              trims,
		types:              types,
		cache:              cache,
		normalizer:         normalizer,
		defaultCapacityL:   defaultCapacityL,
		defaultConsumption: defaultConsumptionKmpl,
	}
}

// carqueryPayload is the shape of the aggregator's getTrims response.
type carqueryPayload struct {
	Trims []model.VehicleTrim `json:"Trims"`
}

// nhtsaPayload is the shape of the registry's types-by-make response.
type nhtsaPayload struct {
	Results []model.VehicleType `json:"Results"`
}

// Lookup runs the combined lookup for a selection.
func (s *VehicleService) Lookup(ctx context.Context, sel model.VehicleSelection) (*model.VehicleLookup, error) {
	year := strconv.Itoa(sel.Year)

	var (
		wg       sync.WaitGroup
		typesRaw json.RawMessage
		typesErr error
		trimsRaw json.RawMessage
		trimsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		typesRaw, typesErr = s.fetchTypes(ctx, sel.Make)
	}()
	go func() {
		defer wg.Done()
		trimsRaw, trimsErr = s.fetchTrims(ctx, sel.Make, sel.Model, year)
	}()
	wg.Wait()

	lookup := &model.VehicleLookup{
		Selection:    sel,
		VehicleTypes: []model.VehicleType{},
		Trims:        []model.VehicleTrim{},
		FuelProfile:  s.defaultProfile(),
	}

	// ── Vehicle types (registry) ────────────────────────
	if typesErr != nil {
		log.Printf("[vehicle] WARNING: registry fetch failed: %v", typesErr)
		lookup.SpecsWarning = appendWarning(lookup.SpecsWarning, "vehicle types unavailable")
	} else if typesRaw != nil {
		var payload nhtsaPayload
		if err := json.Unmarshal(typesRaw, &payload); err == nil {
			lookup.VehicleTypes = payload.Results
		}
	}

	// ── Trims + fuel profile (aggregator) ───────────────
	if trimsErr != nil {
		log.Printf("[vehicle] WARNING: specs fetch failed: %v", trimsErr)
		lookup.SpecsWarning = appendWarning(lookup.SpecsWarning, "vehicle specs unavailable")
		return lookup, nil
	}

	var payload carqueryPayload
	if trimsRaw == nil || json.Unmarshal(trimsRaw, &payload) != nil || len(payload.Trims) == 0 {
		lookup.SpecsWarning = appendWarning(lookup.SpecsWarning,
			"no trims returned for this selection")
		return lookup, nil
	}

	lookup.Trims = payload.Trims
	lookup.FuelProfile = s.deriveFuelProfile(payload.Trims[0])

	return lookup, nil
}

// deriveFuelProfile builds a fuel profile from the first trim,
// keeping the configured defaults for any field that fails its
// validity threshold.
func (s *VehicleService) deriveFuelProfile(trim model.VehicleTrim) model.FuelProfile {
	profile := s.defaultProfile()
	profile.FuelType = ClassifyFuelType(trim.EngineFuel)
	profile.PricePerLiter = s.normalizer.EstimatePricePerLiter(trim.EngineFuel)

	detected := false
	if liters, ok := s.normalizer.NormalizeCapacity(trim.FuelCapRaw); ok {
		profile.TankCapacityLiters = liters
		detected = true
	}
	if kmpl, ok := s.normalizer.NormalizeConsumption(trim.MPGHighwayRaw, trim.MPGMixedRaw); ok {
		profile.ConsumptionKmPerL = kmpl
		detected = true
	}
	profile.AutoDetected = detected

	log.Printf("[vehicle] fuel profile: %.1f L, %.1f km/L, %s (auto=%v)",
		profile.TankCapacityLiters, profile.ConsumptionKmPerL, profile.FuelType, detected)

	return profile
}

func (s *VehicleService) defaultProfile() model.FuelProfile {
	return model.FuelProfile{
		TankCapacityLiters: s.defaultCapacityL,
		ConsumptionKmPerL:  s.defaultConsumption,
		CurrentFuelPercent: 100,
		FuelType:           model.FuelUnknown,
		PricePerLiter:      s.normalizer.PetrolPricePerLiter,
	}
}

// fetchTrims returns the aggregator payload, consulting the cache first.
func (s *VehicleService) fetchTrims(ctx context.Context, makeName, modelName, year string) (json.RawMessage, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, "carquery", makeName, modelName, year); ok {
			return raw, nil
		}
	}
	raw, err := s.trims.GetTrims(ctx, makeName, modelName, year)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, "carquery", makeName, modelName, year, raw)
	}
	return raw, nil
}

// fetchTypes returns the registry payload, consulting the cache first.
// Types are keyed by make only — that is all the registry supports.
func (s *VehicleService) fetchTypes(ctx context.Context, makeName string) (json.RawMessage, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, "nhtsa", makeName, "", ""); ok {
			return raw, nil
		}
	}
	raw, err := s.types.GetVehicleTypesForMake(ctx, makeName)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, "nhtsa", makeName, "", "", raw)
	}
	return raw, nil
}

func appendWarning(existing, msg string) string {
	if existing == "" {
		return msg
	}
	return existing + "; " + msg
}
