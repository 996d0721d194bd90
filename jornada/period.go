package jornada

import "sort"

// DaySummary groups one worked day's closed sessions, ordered by start time.
type DaySummary struct {
	Date     Date
	Sessions []WorkSession
	Regular  float64
	Extra    float64
	Total    float64
}

// PeriodSummary is the rollup of closed sessions over a date range.
type PeriodSummary struct {
	Range        Range
	TotalRegular float64
	TotalExtra   float64
	TotalHours   float64
	WorkedDays   int

	// Days is ordered by date ascending.
	Days []DaySummary
}

// DailyAverage is TotalHours per worked day.
func (p PeriodSummary) DailyAverage() (float64, error) {
	if p.WorkedDays == 0 {
		return 0, ErrDivisionUndefined
	}
	return p.TotalHours / float64(p.WorkedDays), nil
}

// DaysDescending returns the days most recent first, as history views list them.
func (p PeriodSummary) DaysDescending() []DaySummary {
	ds := make([]DaySummary, len(p.Days))
	for i, d := range p.Days {
		ds[len(ds)-1-i] = d
	}
	return ds
}

// Aggregate rolls up the closed sessions dated within r. Active sessions are
// ignored and the input slice is left untouched.
func Aggregate(sessions []WorkSession, r Range) PeriodSummary {
	byDate := make(map[Date][]WorkSession)
	for _, s := range sessions {
		if s.IsActive || !r.Contains(s.Date) {
			continue
		}
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	p := PeriodSummary{Range: r}
	for date, ss := range byDate {
		sort.SliceStable(ss, func(i, j int) bool {
			if ss[i].StartAt.Equal(ss[j].StartAt) {
				return ss[i].ID < ss[j].ID
			}
			return ss[i].StartAt.Before(ss[j].StartAt)
		})
		regular, extra, total := sumHours(ss)
		p.Days = append(p.Days, DaySummary{
			Date:     date,
			Sessions: ss,
			Regular:  regular,
			Extra:    extra,
			Total:    total,
		})
	}
	sort.Slice(p.Days, func(i, j int) bool {
		return p.Days[i].Date < p.Days[j].Date
	})

	// sum in date order so the float result does not depend on map order
	for _, d := range p.Days {
		p.TotalRegular += d.Regular
		p.TotalExtra += d.Extra
		p.TotalHours += d.Total
	}
	p.WorkedDays = len(p.Days)
	return p
}
