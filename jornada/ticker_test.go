package jornada

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicker(t *testing.T) {
	ctx := context.Background()
	clock, _ := newTestClock(t, newTestBuntRepository(t))
	s, err := clock.ClockIn(ctx, at(4, 8, 0))
	require.NoError(t, err)
	day, err := clock.LoadDay(ctx, s.Date)
	require.NoError(t, err)

	ticker := NewTicker(clock, 5*time.Millisecond, discardLogger())
	ticker.now = func() time.Time { return at(4, 10, 30) }

	ticks := make(chan LiveTotals, 16)
	ticker.Start(day, func(lt LiveTotals, err error) {
		assert.NoError(t, err)
		select {
		case ticks <- lt:
		default:
		}
	})
	assert.Equal(t, s.ID, ticker.SessionID())

	select {
	case lt := <-ticks:
		assert.Equal(t, s.ID, lt.SessionID)
		assert.InDelta(t, 2.5, lt.Elapsed, 1e-9)
		assert.InDelta(t, 2.5, lt.Regular, 1e-9)
	case <-time.After(time.Second):
		t.Fatal("no tick received")
	}

	ticker.Stop()
	assert.Empty(t, ticker.SessionID())
	ticker.Stop()
}

func TestTicker_InactiveDay(t *testing.T) {
	clock, _ := newTestClock(t, newTestBuntRepository(t))
	ticker := NewTicker(clock, time.Millisecond, discardLogger())

	called := make(chan struct{}, 1)
	ticker.Start(NewDay("2024-03-04", nil), func(LiveTotals, error) {
		called <- struct{}{}
	})
	assert.Empty(t, ticker.SessionID())

	select {
	case <-called:
		t.Fatal("inactive day must not tick")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTicker_RestartReplacesSession(t *testing.T) {
	clock, _ := newTestClock(t, newTestBuntRepository(t))
	ticker := NewTicker(clock, time.Hour, discardLogger())
	defer ticker.Stop()

	first := NewDay("2024-03-04", []WorkSession{{ID: "a", Date: "2024-03-04", StartAt: at(4, 8, 0), IsActive: true}})
	second := NewDay("2024-03-04", []WorkSession{{ID: "b", Date: "2024-03-04", StartAt: at(4, 9, 0), IsActive: true}})

	ticker.Start(first, func(LiveTotals, error) {})
	assert.Equal(t, "a", ticker.SessionID())
	ticker.Start(second, func(LiveTotals, error) {})
	assert.Equal(t, "b", ticker.SessionID())
	ticker.Start(NewDay("2024-03-04", nil), func(LiveTotals, error) {})
	assert.Empty(t, ticker.SessionID())
}
