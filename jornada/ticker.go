package jornada

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Ticker re-evaluates a day's live totals on a fixed cadence while a session
// is open. Each tick recomputes from the snapshot and the current time; no
// running total is kept between ticks.
type Ticker struct {
	clock    *Clock
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	cancel    context.CancelFunc
	sessionID string
}

func NewTicker(clock *Clock, interval time.Duration, logger *slog.Logger) *Ticker {
	return &Ticker{
		clock:    clock,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start stops any running loop and, if day has an open session, calls onTick
// every interval from the ticker's goroutine until Stop or the next Start.
// The caller renders the initial state itself.
func (t *Ticker) Start(day Day, onTick func(LiveTotals, error)) {
	t.Stop()
	if day.State() != StateSessionActive {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.mu.Lock()
	t.cancel = cancel
	t.sessionID = day.Active.ID
	t.mu.Unlock()

	t.logger.Debug("start ticking", slog.String("session_id", day.Active.ID))
	go func() {
		tk := time.NewTicker(t.interval)
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				lt, err := t.clock.Tick(day, t.now())
				if ctx.Err() != nil {
					return
				}
				onTick(lt, err)
			}
		}
	}()
}

// Stop cancels the running loop. It does not wait for the goroutine, so it is
// safe to call from inside onTick's consumer; a tick already being delivered
// carries the old SessionID and consumers should drop it.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel, t.sessionID = nil, ""
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// SessionID is the id of the session being ticked, empty when idle.
func (t *Ticker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}
