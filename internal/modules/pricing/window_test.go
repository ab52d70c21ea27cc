package pricing

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTimeWindow(t *testing.T) {
	want := map[bool][24]TimeWindow{
		true: {
			WindowNight, WindowNight, WindowNight, WindowNight, WindowNight, WindowNight, // 0-5
			WindowNone,                         // 6
			WindowPeak, WindowPeak, WindowPeak, // 7-9
			WindowNone, WindowNone, WindowNone, WindowNone, WindowNone, WindowNone, WindowNone, // 10-16
			WindowPeak, WindowPeak, WindowPeak, WindowPeak, // 17-20
			WindowNone,               // 21
			WindowNight, WindowNight, // 22-23
		},
		false: {
			WindowNight, WindowNight, WindowNight, WindowNight, WindowNight, WindowNight,
			WindowNone, WindowNone, WindowNone, WindowNone, WindowNone, WindowNone,
			WindowNone, WindowNone, WindowNone, WindowNone, WindowNone, WindowNone,
			WindowNone, WindowNone, WindowNone, WindowNone,
			WindowNight, WindowNight,
		},
	}
	for weekday, hours := range want {
		for hour, w := range hours {
			got, err := ClassifyTimeWindow(hour, weekday)
			require.NoError(t, err)
			assert.Equal(t, w, got, "hour %d weekday %v: got %s want %s", hour, weekday, got, w)
		}
	}
}

func TestClassifyTimeWindow_OutOfRange(t *testing.T) {
	for _, hour := range []int{-1, 24, 100} {
		_, err := ClassifyTimeWindow(hour, true)
		assert.True(t, errors.Is(err, ErrInvalidPickupHour), "hour %d", hour)
	}
}

func TestFormatBreakdown(t *testing.T) {
	b, err := Estimate(EstimateRequest{DistanceKm: 100, VehicleClassID: "suv"})
	require.NoError(t, err)

	d := FormatBreakdown(b)
	labels := d.Labels()
	assert.Equal(t, "$25.00", labels["base_price"])
	assert.Equal(t, "$50.00", labels["distance_surcharge"])
	assert.Equal(t, "$22.50", labels["vehicle_surcharge"])
	assert.Equal(t, "$0.00", labels["night_surcharge"])
	assert.Equal(t, "$97.50", labels["total_price"])
	assert.Equal(t, int64(9750), d.TotalPrice.Amount)
}
