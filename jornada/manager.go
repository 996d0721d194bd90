package jornada

import (
	"context"
	"errors"
	"fmt"
	"jornada/jornada_event"
	"log/slog"
	"sync"
	"time"
)

const IdleDescription = "auto: idle"

// Manager drives the clock from desktop activity: the first activity of a
// day clocks in, and a session with no activity for finishAfter is clocked
// out at its last activity. The last activity is persisted, so a session left
// open by a stopped watch process is still closed by the next one.
type Manager struct {
	clock           *Clock
	activity        ActivityRepository
	eventWatchers   []jornada_event.Watcher
	logger          *slog.Logger
	exitCh          chan error
	pollingInterval time.Duration
	finishAfter     time.Duration
	now             func() time.Time

	mu          sync.Mutex
	restored    bool
	lastEventAt time.Time
}

func NewManager(clock *Clock, activity ActivityRepository, eventWatchers []jornada_event.Watcher, logger *slog.Logger, pollingInterval, finishAfter time.Duration) *Manager {
	return &Manager{
		clock:           clock,
		activity:        activity,
		eventWatchers:   eventWatchers,
		logger:          logger,
		exitCh:          make(chan error, len(eventWatchers)),
		pollingInterval: pollingInterval,
		finishAfter:     finishAfter,
		now:             time.Now,
	}
}

// Watch starts every watcher and polls until ctx is done or a watcher fails.
func (m *Manager) Watch(ctx context.Context) error {
	// close what a previous run left open before the first activity arrives
	if err := m.Poll(ctx); err != nil {
		m.logger.Error("poll", slog.String("error", err.Error()))
	}
	for _, watcher := range m.eventWatchers {
		watcher := watcher
		go func() {
			m.logger.Debug("start watching", slog.String("watcher", watcher.Name()))
			if err := watcher.Watch(func() {
				if err := m.HandleEvent(ctx); err != nil {
					m.logger.Error("handle event", slog.String("watcher", watcher.Name()), slog.String("error", err.Error()))
				}
			}); err != nil {
				m.exitCh <- fmt.Errorf("failed to start watch. watcher: %s: %w", watcher.Name(), err)
			}
		}()
	}
	m.logger.Debug("start polling")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(m.pollingInterval):
			if err := m.Poll(ctx); err != nil {
				m.logger.Error("poll", slog.String("error", err.Error()))
			}
		case err := <-m.exitCh:
			return err
		}
	}
}

// HandleEvent records activity and opens a session if none is open today.
// Sessions left open on earlier days are closed first, at the previous
// activity, before that activity is overwritten.
func (m *Manager) HandleEvent(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.restore(ctx); err != nil {
		return err
	}
	now := m.now()
	if err := m.closeStale(ctx, DateOf(now)); err != nil {
		return err
	}
	if err := m.activity.SaveLastEventAt(ctx, now); err != nil {
		return err
	}
	m.lastEventAt = now

	state, err := m.clock.State(ctx, DateOf(now))
	if err != nil {
		return err
	}
	if state == StateSessionActive {
		return nil
	}
	_, err = m.clock.ClockIn(ctx, now)
	if errors.Is(err, ErrAlreadyActive) {
		// clocked in by another process in the meantime
		return nil
	}
	return err
}

// Poll closes sessions that went idle: today's after finishAfter without
// activity, earlier days' right away.
func (m *Manager) Poll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.restore(ctx); err != nil {
		return err
	}
	now := m.now()
	today := DateOf(now)
	if err := m.closeStale(ctx, today); err != nil {
		return err
	}

	last := m.lastEventAt
	if last.IsZero() || DateOf(last) != today || now.Sub(last) < m.finishAfter {
		return nil
	}
	day, err := m.clock.LoadDay(ctx, today)
	if err != nil {
		return err
	}
	if day.Active == nil || last.Before(day.Active.StartAt) {
		return nil
	}

	m.logger.Debug("idle, clocking out", slog.String("date", string(today)), slog.Time("last_event_at", last))
	return m.clockOut(ctx, today, last)
}

// restore loads the persisted last activity once.
func (m *Manager) restore(ctx context.Context) error {
	if m.restored {
		return nil
	}
	t, err := m.activity.LastEventAt(ctx)
	if err != nil {
		return err
	}
	if t.After(m.lastEventAt) {
		m.lastEventAt = t
	}
	m.restored = true
	return nil
}

// closeStale closes every session still open on a day before today. It ends
// at the last activity when that falls within the session's day, otherwise at
// its start, since nothing tells how long it really lasted.
func (m *Manager) closeStale(ctx context.Context, today Date) error {
	ss, err := m.clock.OpenBefore(ctx, today)
	if err != nil {
		return err
	}
	for _, s := range ss {
		end := s.StartAt
		if last := m.lastEventAt; DateOf(last) == s.Date && !last.Before(s.StartAt) {
			end = last
		}
		m.logger.Info("closing session left open", slog.String("session_id", s.ID), slog.String("date", string(s.Date)), slog.Time("end_at", end))
		if err := m.clockOut(ctx, s.Date, end); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) clockOut(ctx context.Context, date Date, at time.Time) error {
	_, err := m.clock.ClockOutAt(ctx, date, at, IdleDescription)
	if errors.Is(err, ErrNoActiveSession) {
		return nil
	}
	return err
}
