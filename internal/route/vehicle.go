package route

import "routeopt/internal/model"

// SpecLookup resolves a vehicle type to its specification.
type SpecLookup func(vehicleType string) (model.VehicleSpec, bool)

const DefaultVehicleType = "diesel_truck"

// DefaultSpecs is the fleet table shipped with the service. Fuel efficiency
// is L/100km; electric trucks burn no fuel, their energy cost rides on
// cost_per_km instead.
func DefaultSpecs() map[string]model.VehicleSpec {
	return map[string]model.VehicleSpec{
		"diesel_truck":   {FuelEfficiencyLPer100KM: 35, CostPerKM: 0.68},
		"petrol_truck":   {FuelEfficiencyLPer100KM: 40, CostPerKM: 0.74},
		"electric_truck": {FuelEfficiencyLPer100KM: 0, CostPerKM: 0.42},
		"hybrid_truck":   {FuelEfficiencyLPer100KM: 25, CostPerKM: 0.55},
	}
}

// LookupFrom builds a SpecLookup over a spec table. Unknown vehicle types
// fall back to the default type, matching the lenient contract callers
// expect from the metrics stage.
func LookupFrom(specs map[string]model.VehicleSpec) SpecLookup {
	return func(vt string) (model.VehicleSpec, bool) {
		if s, ok := specs[vt]; ok {
			return s, true
		}
		s, ok := specs[DefaultVehicleType]
		return s, ok
	}
}
