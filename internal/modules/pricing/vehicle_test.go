package pricing

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_SedanIsReference(t *testing.T) {
	sedan, err := LookupVehicleClass("sedan")
	require.NoError(t, err)
	assert.Equal(t, 1.0, sedan.Multiplier)

	s, err := DefaultRegistry().VehicleSurcharge("sedan", 1234.5)
	require.NoError(t, err)
	assert.Zero(t, s)
}

func TestDefaultRegistry_Order(t *testing.T) {
	var ids []string
	for _, vc := range VehicleClasses() {
		ids = append(ids, vc.ID)
		assert.GreaterOrEqual(t, vc.Multiplier, 1.0, vc.ID)
	}
	assert.Equal(t, []string{"sedan", "suv", "minivan", "minicoach", "luxury"}, ids)
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	all := VehicleClasses()
	all[0].Multiplier = 9

	sedan, err := LookupVehicleClass("sedan")
	require.NoError(t, err)
	assert.Equal(t, 1.0, sedan.Multiplier)
}

func TestRegistry_VehicleSurcharge(t *testing.T) {
	r := DefaultRegistry()

	got, err := r.VehicleSurcharge("suv", 75)
	require.NoError(t, err)
	assert.InDelta(t, 22.5, got, eps)

	_, err = r.VehicleSurcharge("tuk-tuk", 75)
	assert.True(t, errors.Is(err, ErrUnknownVehicleClass))
}

func TestNewRegistry_Validation(t *testing.T) {
	_, err := NewRegistry(VehicleClass{ID: "", Multiplier: 1})
	assert.Error(t, err)

	_, err = NewRegistry(VehicleClass{ID: "a", Multiplier: 1}, VehicleClass{ID: "a", Multiplier: 2})
	assert.Error(t, err)

	_, err = NewRegistry(VehicleClass{ID: "cheap", Multiplier: 0.8})
	assert.Error(t, err)

	r, err := NewRegistry(VehicleClass{ID: "bus", Multiplier: 3})
	require.NoError(t, err)
	s := NewService(r)
	b, err := s.Estimate(EstimateRequest{DistanceKm: 10, VehicleClassID: "bus"})
	require.NoError(t, err)
	assert.InDelta(t, 60, b.VehicleSurcharge, eps)

	_, err = s.Estimate(EstimateRequest{DistanceKm: 10, VehicleClassID: "sedan"})
	assert.True(t, errors.Is(err, ErrUnknownVehicleClass))
}
