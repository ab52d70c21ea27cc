package pricing

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Registry is an immutable id -> VehicleClass table. The zero value is empty.
type Registry struct {
	classes map[string]VehicleClass
	order   []string
}

var defaultRegistry = mustRegistry(
	VehicleClass{ID: "sedan", Name: "Sedan", Description: "Toyota Premio, Honda Grace", Passengers: 3, Luggage: 3, Multiplier: 1.0},
	VehicleClass{ID: "suv", Name: "SUV", Description: "Toyota Prado, Mitsubishi Montero", Passengers: 6, Luggage: 4, Multiplier: 1.3},
	VehicleClass{ID: "minivan", Name: "Mini Van", Description: "Toyota KDH, Nissan Caravan", Passengers: 8, Luggage: 6, Multiplier: 1.5},
	VehicleClass{ID: "minicoach", Name: "Mini Coach", Description: "Toyota Coaster, Rosa Bus", Passengers: 25, Luggage: 25, Multiplier: 2.0},
	VehicleClass{ID: "luxury", Name: "Luxury Vehicle", Description: "Mercedes E-Class, BMW 5 Series", Passengers: 3, Luggage: 3, Multiplier: 2.5},
)

// DefaultRegistry returns the vehicle classes offered for transfers.
func DefaultRegistry() Registry {
	return defaultRegistry
}

// NewRegistry validates and freezes a set of vehicle classes.
// Ids must be unique and non-empty, multipliers finite and >= 1.
func NewRegistry(classes ...VehicleClass) (Registry, error) {
	r := Registry{
		classes: make(map[string]VehicleClass, len(classes)),
		order:   make([]string, 0, len(classes)),
	}
	for _, vc := range classes {
		if vc.ID == "" {
			return Registry{}, errors.New("vehicle class id is empty")
		}
		if _, dup := r.classes[vc.ID]; dup {
			return Registry{}, errors.Newf("duplicate vehicle class %q", vc.ID)
		}
		if math.IsNaN(vc.Multiplier) || math.IsInf(vc.Multiplier, 0) || vc.Multiplier < 1 {
			return Registry{}, errors.Newf("vehicle class %q: multiplier %v must be >= 1", vc.ID, vc.Multiplier)
		}
		r.classes[vc.ID] = vc
		r.order = append(r.order, vc.ID)
	}
	return r, nil
}

func mustRegistry(classes ...VehicleClass) Registry {
	r, err := NewRegistry(classes...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the class with the given id or ErrUnknownVehicleClass.
func (r Registry) Lookup(id string) (VehicleClass, error) {
	vc, ok := r.classes[id]
	if !ok {
		return VehicleClass{}, errors.Wrapf(ErrUnknownVehicleClass, "%q", id)
	}
	return vc, nil
}

// All lists the classes in registration order.
func (r Registry) All() []VehicleClass {
	out := make([]VehicleClass, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.classes[id])
	}
	return out
}

// VehicleSurcharge is baseAmount * (multiplier - 1) for the given class.
// Unknown ids fail; there is no fallback multiplier.
func (r Registry) VehicleSurcharge(vehicleClassID string, baseAmount float64) (float64, error) {
	vc, err := r.Lookup(vehicleClassID)
	if err != nil {
		return 0, err
	}
	return baseAmount * (vc.Multiplier - 1), nil
}

// LookupVehicleClass looks id up in the default registry.
func LookupVehicleClass(id string) (VehicleClass, error) {
	return defaultRegistry.Lookup(id)
}

// VehicleClasses lists the default registry.
func VehicleClasses() []VehicleClass {
	return defaultRegistry.All()
}
