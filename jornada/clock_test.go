package jornada

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_ClockInOut(t *testing.T) {
	ctx := context.Background()
	repo := newTestBuntRepository(t)
	clock, notes := newTestClock(t, repo)
	date := DateOf(at(4, 0, 0))

	state, err := clock.State(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, StateNoActiveSession, state)

	s, err := clock.ClockIn(ctx, at(4, 8, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.True(t, s.IsActive)
	assert.Equal(t, date, s.Date)
	assert.Nil(t, s.EndAt)

	state, err = clock.State(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, StateSessionActive, state)

	out, err := clock.ClockOut(ctx, at(4, 14, 0), "feature A")
	require.NoError(t, err)
	assert.Equal(t, s.ID, out.ID)
	assert.False(t, out.IsActive)
	require.NotNil(t, out.EndAt)
	assert.True(t, out.EndAt.Equal(at(4, 14, 0)))
	assert.InDelta(t, 6.0, out.RegularHours, 1e-9)
	assert.Zero(t, out.ExtraHours)
	assert.InDelta(t, 6.0, out.TotalHours, 1e-9)
	assert.Equal(t, "feature A", out.WorkDescription)

	assert.Equal(t, []string{"Clock in", "Clock out"}, notes.titles)
}

func TestClock_SecondSessionCrossesThreshold(t *testing.T) {
	ctx := context.Background()
	clock, _ := newTestClock(t, newTestBuntRepository(t))

	_, err := clock.ClockIn(ctx, at(4, 8, 0))
	require.NoError(t, err)
	_, err = clock.ClockOut(ctx, at(4, 14, 0), "A")
	require.NoError(t, err)

	_, err = clock.ClockIn(ctx, at(4, 15, 0))
	require.NoError(t, err)

	day, err := clock.LoadDay(ctx, DateOf(at(4, 0, 0)))
	require.NoError(t, err)
	lt, err := clock.Tick(day, at(4, 19, 0))
	require.NoError(t, err)
	assert.InDelta(t, 8.0, lt.Regular, 1e-9)
	assert.InDelta(t, 2.0, lt.Extra, 1e-9)

	b, err := clock.ClockOut(ctx, at(4, 19, 0), "B")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, b.RegularHours, 1e-9)
	assert.InDelta(t, 2.0, b.ExtraHours, 1e-9)
	assert.InDelta(t, 4.0, b.TotalHours, 1e-9)
}

func TestClock_ClockInTwice(t *testing.T) {
	ctx := context.Background()
	repo := newTestBuntRepository(t)
	clock, _ := newTestClock(t, repo)

	first, err := clock.ClockIn(ctx, at(4, 8, 0))
	require.NoError(t, err)

	_, err = clock.ClockIn(ctx, at(4, 9, 0))
	assert.ErrorIs(t, err, ErrAlreadyActive)

	ss, err := repo.Filter(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, ss, 1)
	assert.Equal(t, first.ID, ss[0].ID)
	assert.True(t, ss[0].StartAt.Equal(at(4, 8, 0)))
	assert.True(t, ss[0].IsActive)
}

func TestClock_ImmediateClockOut(t *testing.T) {
	ctx := context.Background()
	clock, _ := newTestClock(t, newTestBuntRepository(t))

	_, err := clock.ClockIn(ctx, at(4, 8, 0))
	require.NoError(t, err)
	s, err := clock.ClockOut(ctx, at(4, 8, 0), "")
	require.NoError(t, err)
	assert.Zero(t, s.TotalHours)
	assert.Zero(t, s.RegularHours)
	assert.Zero(t, s.ExtraHours)
	assert.False(t, s.IsActive)
}

func TestClock_ClockOutWithoutSession(t *testing.T) {
	clock, notes := newTestClock(t, newTestBuntRepository(t))

	_, err := clock.ClockOut(context.Background(), at(4, 18, 0), "")
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.Empty(t, notes.titles)
}

func TestClock_ClockOutNextDay(t *testing.T) {
	ctx := context.Background()
	repo := newTestBuntRepository(t)
	clock, _ := newTestClock(t, repo)

	s, err := clock.ClockIn(ctx, at(4, 22, 0))
	require.NoError(t, err)

	// the open session belongs to the 4th, not to the 5th
	_, err = clock.ClockOut(ctx, at(5, 1, 0), "")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = clock.ClockOutAt(ctx, s.Date, at(5, 1, 0), "")
	assert.ErrorIs(t, err, ErrInvalidInterval)

	ss, err := repo.Filter(ctx, Filter{Active: ActiveOnly()})
	require.NoError(t, err)
	require.Len(t, ss, 1, "a failed clock-out must not write")

	out, err := clock.ClockOutAt(ctx, s.Date, at(4, 23, 30), "late fix")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, out.TotalHours, 1e-9)
}

func TestClock_Threshold(t *testing.T) {
	repo := newTestBuntRepository(t)
	c := NewClock(repo, discardLogger(), NopNotificator{}, nil, 0)
	assert.Equal(t, DefaultThreshold, c.Threshold())

	c = NewClock(repo, discardLogger(), NopNotificator{}, nil, 6)
	assert.Equal(t, 6.0, c.Threshold())
}
