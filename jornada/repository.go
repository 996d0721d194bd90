package jornada

import (
	"context"
	"sort"
	"time"
)

// Repository stores work sessions. Implementations assign ids on Create and
// refuse to Update a session that is already closed.
type Repository interface {
	Create(ctx context.Context, s WorkSession) (WorkSession, error)
	Update(ctx context.Context, id string, u SessionUpdate) (WorkSession, error)
	Filter(ctx context.Context, f Filter) ([]WorkSession, error)
}

// ActivityRepository keeps the time of the last desktop activity seen by
// watch mode, so an idle session can still be closed after a restart. A zero
// time means no activity was ever recorded.
type ActivityRepository interface {
	SaveLastEventAt(ctx context.Context, t time.Time) error
	LastEventAt(ctx context.Context) (time.Time, error)
}

type Order int

const (
	OrderDateAsc Order = iota
	OrderDateDesc
)

// Filter selects sessions by date range and activity. Zero From/To leave the
// range open on that side; a nil Active matches both states.
type Filter struct {
	From   Date
	To     Date
	Active *bool
	Order  Order
	Limit  int
}

func ActiveOnly() *bool {
	b := true
	return &b
}

func ClosedOnly() *bool {
	b := false
	return &b
}

func (f Filter) match(s WorkSession) bool {
	if !f.From.IsZero() && s.Date < f.From {
		return false
	}
	if !f.To.IsZero() && s.Date > f.To {
		return false
	}
	if f.Active != nil && s.IsActive != *f.Active {
		return false
	}
	return true
}

// arrange orders the matched sessions by date in the requested direction,
// start time ascending within a date, and applies the limit.
func (f Filter) arrange(ss []WorkSession) []WorkSession {
	sort.SliceStable(ss, func(i, j int) bool {
		if ss[i].Date != ss[j].Date {
			if f.Order == OrderDateDesc {
				return ss[i].Date > ss[j].Date
			}
			return ss[i].Date < ss[j].Date
		}
		return ss[i].StartAt.Before(ss[j].StartAt)
	})
	if f.Limit > 0 && len(ss) > f.Limit {
		ss = ss[:f.Limit]
	}
	return ss
}
