package jornada

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	r := Range{Start: "2024-03-04", End: "2024-03-10"}
	sessions := []WorkSession{
		closedSession("d3", at(6, 9, 0), 8, 0.5),
		closedSession("d1b", at(4, 15, 0), 2, 2),
		closedSession("d1a", at(4, 8, 0), 6, 0),
		closedSession("d2", at(5, 9, 0), 6.5, 0),
		closedSession("outside", at(11, 9, 0), 8, 0),
		{ID: "open", Date: "2024-03-06", StartAt: at(6, 18, 0), IsActive: true},
	}
	input := append([]WorkSession(nil), sessions...)

	p := Aggregate(sessions, r)

	assert.Equal(t, r, p.Range)
	assert.Equal(t, 3, p.WorkedDays)
	assert.InDelta(t, 22.5, p.TotalRegular, 1e-9)
	assert.InDelta(t, 2.5, p.TotalExtra, 1e-9)
	assert.InDelta(t, 25.0, p.TotalHours, 1e-9)

	avg, err := p.DailyAverage()
	require.NoError(t, err)
	assert.InDelta(t, 25.0/3, avg, 1e-9)

	require.Len(t, p.Days, 3)
	assert.Equal(t, Date("2024-03-04"), p.Days[0].Date)
	assert.Equal(t, Date("2024-03-05"), p.Days[1].Date)
	assert.Equal(t, Date("2024-03-06"), p.Days[2].Date)
	require.Len(t, p.Days[0].Sessions, 2)
	assert.Equal(t, "d1a", p.Days[0].Sessions[0].ID)
	assert.Equal(t, "d1b", p.Days[0].Sessions[1].ID)
	assert.InDelta(t, 10.0, p.Days[0].Total, 1e-9)
	assert.InDelta(t, 2.0, p.Days[0].Extra, 1e-9)
	require.Len(t, p.Days[2].Sessions, 1, "active sessions are not aggregated")

	desc := p.DaysDescending()
	assert.Equal(t, Date("2024-03-06"), desc[0].Date)
	assert.Equal(t, Date("2024-03-04"), desc[2].Date)
	assert.Equal(t, Date("2024-03-04"), p.Days[0].Date, "DaysDescending must not reorder Days")

	assert.Equal(t, input, sessions, "input must not be mutated")
}

func TestAggregate_Deterministic(t *testing.T) {
	r := Range{Start: "2024-03-01", End: "2024-03-31"}
	sessions := []WorkSession{
		closedSession("a", at(4, 8, 0), 0.1, 0),
		closedSession("b", at(5, 8, 0), 0.2, 0),
		closedSession("c", at(6, 8, 0), 0.3, 0.7),
		closedSession("d", at(6, 8, 0), 0.4, 0),
	}
	reversed := []WorkSession{sessions[3], sessions[2], sessions[1], sessions[0]}

	assert.Equal(t, Aggregate(sessions, r), Aggregate(reversed, r))
}

func TestAggregate_Empty(t *testing.T) {
	p := Aggregate(nil, Range{Start: "2024-03-04", End: "2024-03-10"})

	assert.Zero(t, p.WorkedDays)
	assert.Zero(t, p.TotalHours)
	assert.Empty(t, p.Days)
	_, err := p.DailyAverage()
	assert.ErrorIs(t, err, ErrDivisionUndefined)
}
