package jornada

import (
	"sort"
	"time"
)

// Day is the explicit context the state machine works on: one date's closed
// sessions and, if any, its open session.
type Day struct {
	Date   Date
	Closed []WorkSession
	Active *WorkSession
}

// NewDay partitions the sessions recorded for date. Should the store ever
// hold more than one open session for the date, the earliest one wins.
func NewDay(date Date, sessions []WorkSession) Day {
	d := Day{Date: date}
	for _, s := range sessions {
		if s.Date != date {
			continue
		}
		if !s.IsActive {
			d.Closed = append(d.Closed, s)
			continue
		}
		if d.Active == nil || s.StartAt.Before(d.Active.StartAt) {
			s := s
			d.Active = &s
		}
	}
	sort.SliceStable(d.Closed, func(i, j int) bool {
		return d.Closed[i].StartAt.Before(d.Closed[j].StartAt)
	})
	return d
}

func (d Day) State() SessionState {
	if d.Active != nil {
		return StateSessionActive
	}
	return StateNoActiveSession
}

func (d Day) PriorRegular() float64 {
	r, _, _ := sumHours(d.Closed)
	return r
}

// LiveTotals is what the dashboard shows: the day's regular and extra hours
// including the running part of the open session.
type LiveTotals struct {
	Date      Date
	State     SessionState
	SessionID string

	// Elapsed, SessionRegular and SessionExtra describe the open session only.
	Elapsed        float64
	SessionRegular float64
	SessionExtra   float64

	Regular float64
	Extra   float64
	Total   float64
}

// Live computes the totals at now. It never mutates anything.
func (d Day) Live(now time.Time, threshold float64) (LiveTotals, error) {
	regular, extra, total := sumHours(d.Closed)
	lt := LiveTotals{
		Date:    d.Date,
		State:   d.State(),
		Regular: regular,
		Extra:   extra,
		Total:   total,
	}
	if d.Active == nil {
		return lt, nil
	}

	elapsed, err := HoursBetween(d.Active.StartAt, now)
	if err != nil {
		return LiveTotals{}, err
	}
	sr, se := Split(regular, elapsed, threshold)

	lt.SessionID = d.Active.ID
	lt.Elapsed = elapsed
	lt.SessionRegular = sr
	lt.SessionExtra = se
	lt.Regular += sr
	lt.Extra += se
	lt.Total += elapsed
	return lt, nil
}

// closing computes the clock-out mutation of the open session at now.
func (d Day) closing(now time.Time, threshold float64, description string) (SessionUpdate, error) {
	if d.Active == nil {
		return SessionUpdate{}, ErrNoActiveSession
	}
	elapsed, err := HoursBetween(d.Active.StartAt, now)
	if err != nil {
		return SessionUpdate{}, err
	}
	regular, extra := Split(d.PriorRegular(), elapsed, threshold)
	return SessionUpdate{
		EndAt:           now,
		RegularHours:    regular,
		ExtraHours:      extra,
		TotalHours:      elapsed,
		WorkDescription: description,
	}, nil
}
