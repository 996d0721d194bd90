package jornada

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Locker serializes clock mutations across processes.
type Locker interface {
	Lock() error
	Unlock() error
}

// Clock is the session state machine. It holds no session state of its own:
// every operation derives the day's state from the repository and takes the
// current time from the caller, sampled once per operation.
type Clock struct {
	repo        Repository
	mux         Locker
	notificator Notificator
	threshold   float64
	logger      *slog.Logger
}

func NewClock(repo Repository, logger *slog.Logger, notificator Notificator, mux Locker, threshold float64) *Clock {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Clock{
		repo:        repo,
		mux:         mux,
		notificator: notificator,
		threshold:   threshold,
		logger:      logger,
	}
}

func (c *Clock) Threshold() float64 {
	return c.threshold
}

// LoadDay reads the sessions recorded for date.
func (c *Clock) LoadDay(ctx context.Context, date Date) (Day, error) {
	ss, err := c.repo.Filter(ctx, Filter{From: date, To: date, Order: OrderDateAsc})
	if err != nil {
		return Day{}, err
	}
	return NewDay(date, ss), nil
}

// OpenBefore lists sessions still open on a date before date.
func (c *Clock) OpenBefore(ctx context.Context, date Date) ([]WorkSession, error) {
	return c.repo.Filter(ctx, Filter{To: date.AddDays(-1), Active: ActiveOnly(), Order: OrderDateAsc})
}

func (c *Clock) State(ctx context.Context, date Date) (SessionState, error) {
	d, err := c.LoadDay(ctx, date)
	if err != nil {
		return "", err
	}
	return d.State(), nil
}

// Tick computes the live totals of day at now.
func (c *Clock) Tick(day Day, now time.Time) (LiveTotals, error) {
	return day.Live(now, c.threshold)
}

func (c *Clock) ClockIn(ctx context.Context, now time.Time) (WorkSession, error) {
	if err := c.mux.Lock(); err != nil {
		return WorkSession{}, fmt.Errorf("acquiring clock lock: %w", err)
	}
	defer c.mux.Unlock()

	date := DateOf(now)
	day, err := c.LoadDay(ctx, date)
	if err != nil {
		return WorkSession{}, err
	}
	if day.State() == StateSessionActive {
		return WorkSession{}, fmt.Errorf("%w (started %s)", ErrAlreadyActive, day.Active.StartAt.Format("15:04"))
	}

	s, err := c.repo.Create(ctx, WorkSession{
		Date:     date,
		StartAt:  now,
		IsActive: true,
	})
	if err != nil {
		return WorkSession{}, err
	}

	c.logger.Info("clock in", slog.String("session_id", s.ID), slog.String("date", string(date)))
	c.notify("Clock in", "Session started at "+now.Format("15:04"))
	return s, nil
}

func (c *Clock) ClockOut(ctx context.Context, now time.Time, description string) (WorkSession, error) {
	return c.ClockOutAt(ctx, DateOf(now), now, description)
}

// ClockOutAt closes the open session of date at now. now must fall on date.
func (c *Clock) ClockOutAt(ctx context.Context, date Date, now time.Time, description string) (WorkSession, error) {
	if err := c.mux.Lock(); err != nil {
		return WorkSession{}, fmt.Errorf("acquiring clock lock: %w", err)
	}
	defer c.mux.Unlock()

	day, err := c.LoadDay(ctx, date)
	if err != nil {
		return WorkSession{}, err
	}
	u, err := day.closing(now, c.threshold, description)
	if err != nil {
		return WorkSession{}, err
	}

	s, err := c.repo.Update(ctx, day.Active.ID, u)
	if err != nil {
		return WorkSession{}, err
	}

	c.logger.Info("clock out",
		slog.String("session_id", s.ID),
		slog.String("date", string(s.Date)),
		slog.Float64("regular_hours", s.RegularHours),
		slog.Float64("extra_hours", s.ExtraHours),
	)
	c.notify("Clock out", fmt.Sprintf("%s worked (%s extra)", FormatHours(s.TotalHours), FormatHours(s.ExtraHours)))
	return s, nil
}

func (c *Clock) notify(title, message string) {
	if err := c.notificator.Notify(title, message); err != nil {
		c.logger.Warn("notify", slog.String("error", err.Error()))
	}
}
