package jornada_event

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPositionDistance(t *testing.T) {
	assert.InDelta(t, 5.0, position{0, 0}.distance(position{3, 4}), 1e-9)
	assert.Zero(t, position{10, 10}.distance(position{10, 10}))
}

func TestMouseEventWatcher(t *testing.T) {
	var calls atomic.Int64
	// jitter first, then a real move
	positions := []position{{0, 0}, {10, 10}, {300, 0}}
	w := &MouseEventWatcher{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		interval: time.Millisecond,
		location: func() position {
			i := calls.Add(1) - 1
			if int(i) >= len(positions) {
				return positions[len(positions)-1]
			}
			return positions[i]
		},
	}

	events := make(chan struct{}, 8)
	go w.Watch(func() { events <- struct{}{} })

	select {
	case <-events:
	case <-time.After(time.Second):
		t.Fatal("no event for a move past the threshold")
	}
	select {
	case <-events:
		t.Fatal("staying put must not report again")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, "MouseEventWatcher", w.Name())
}

func TestNewAllWatchers(t *testing.T) {
	ws := NewAllWatchers(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NotEmpty(t, ws)
	assert.Equal(t, "KeyboardEventWatcher", ws[0].Name())
}

func TestThrottle(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)
	calls := 0
	report := throttle(time.Second, func() time.Time { return now }, func() { calls++ })

	report()
	now = now.Add(300 * time.Millisecond)
	report()
	now = now.Add(600 * time.Millisecond)
	report()
	assert.Equal(t, 1, calls, "bursts within the gap are reported once")

	now = now.Add(100 * time.Millisecond)
	report()
	assert.Equal(t, 2, calls)
}
