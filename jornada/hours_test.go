package jornada

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoursBetween(t *testing.T) {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.Local)

	h, err := HoursBetween(start, start.Add(90*time.Minute))
	require.NoError(t, err)
	assert.InDelta(t, 1.5, h, 1e-9)

	h, err = HoursBetween(start, start)
	require.NoError(t, err)
	assert.Zero(t, h)
}

func TestHoursBetween_InvalidInterval(t *testing.T) {
	start := time.Date(2024, 3, 4, 22, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		end  time.Time
	}{
		{"end before start", start.Add(-time.Minute)},
		{"next day", start.Add(3 * time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HoursBetween(start, tt.end)
			assert.ErrorIs(t, err, ErrInvalidInterval)
		})
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0h 0m"},
		{1.5, "1h 30m"},
		{7.999, "8h 0m"},
		{8, "8h 0m"},
		{0.25, "0h 15m"},
		{2 + 59.6/60, "3h 0m"},
		{10.1, "10h 6m"},
		{-1, "0h 0m"},
		{math.NaN(), "0h 0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatHours(tt.hours), "hours %v", tt.hours)
	}
}
