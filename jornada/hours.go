package jornada

import (
	"fmt"
	"math"
	"time"
)

// HoursBetween returns the elapsed time from start to end in fractional
// hours. Both instants must fall on the same calendar day.
func HoursBetween(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%w: %s before %s", ErrInvalidInterval, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if DateOf(end.In(start.Location())) != DateOf(start) {
		return 0, fmt.Errorf("%w: %s and %s are on different days", ErrInvalidInterval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return end.Sub(start).Hours(), nil
}

// FormatHours renders hours as "Hh Mm", carrying a rounded 60th minute.
func FormatHours(hours float64) string {
	if hours < 0 || math.IsNaN(hours) {
		hours = 0
	}
	h := math.Floor(hours)
	m := math.Round((hours - h) * 60)
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%dh %dm", int(h), int(m))
}
