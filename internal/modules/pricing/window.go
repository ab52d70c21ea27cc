package pricing

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ClassifyTimeWindow maps a pickup hour to its surcharge window.
//
// Night is 22:00-05:59 on any day. Peak is 07:00-09:59 and 17:00-20:59 on
// weekdays. Night is checked first, so it wins if the ranges are ever changed
// to overlap.
func ClassifyTimeWindow(hour int, isWeekday bool) (TimeWindow, error) {
	if hour < 0 || hour > 23 {
		return WindowNone, errors.Wrapf(ErrInvalidPickupHour, "hour %d outside [0,23]", hour)
	}
	if isNightHour(hour) {
		return WindowNight, nil
	}
	if isWeekday && isPeakHour(hour) {
		return WindowPeak, nil
	}
	return WindowNone, nil
}

func isNightHour(hour int) bool {
	return hour >= 22 || hour < 6
}

func isPeakHour(hour int) bool {
	return (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 20)
}

// PickupTimeFrom reads hour and weekday of t in loc. A nil loc means t's own location.
func PickupTimeFrom(t time.Time, loc *time.Location) PickupTime {
	if loc != nil {
		t = t.In(loc)
	}
	wd := t.Weekday()
	return PickupTime{
		Hour:      t.Hour(),
		IsWeekday: wd != time.Saturday && wd != time.Sunday,
	}
}
