package jornada

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day of record in "2006-01-02" form. The zero value
// means "unset" and sorts before every real date.
type Date string

func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns local midnight of the date.
func (d Date) Time() time.Time {
	t, err := time.ParseInLocation(DateLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) IsZero() bool {
	return d == ""
}

// Range is an inclusive span of dates.
type Range struct {
	Start Date
	End   Date
}

func (r Range) Contains(d Date) bool {
	return d >= r.Start && d <= r.End
}

// Dates lists every date of the range in ascending order.
func (r Range) Dates() []Date {
	var ds []Date
	for d := r.Start; d <= r.End; d = d.AddDays(1) {
		ds = append(ds, d)
	}
	return ds
}

type Period string

const (
	PeriodDay   = Period("day")
	PeriodWeek  = Period("week")
	PeriodMonth = Period("month")
	PeriodYear  = Period("year")
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q, expected day, week, month or year", s)
}

// PeriodRange returns the range of the period containing ref, shifted offset
// periods into the past. Weeks run Monday to Sunday.
func PeriodRange(p Period, ref time.Time, offset int) Range {
	y, m, d := ref.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())

	switch p {
	case PeriodWeek:
		wd := int(day.Weekday())
		if wd == 0 {
			wd = 7
		}
		start := day.AddDate(0, 0, -(wd-1)-7*offset)
		return Range{Start: DateOf(start), End: DateOf(start.AddDate(0, 0, 6))}
	case PeriodMonth:
		start := time.Date(y, m-time.Month(offset), 1, 0, 0, 0, 0, ref.Location())
		return Range{Start: DateOf(start), End: DateOf(start.AddDate(0, 1, -1))}
	case PeriodYear:
		start := time.Date(y-offset, time.January, 1, 0, 0, 0, 0, ref.Location())
		return Range{Start: DateOf(start), End: DateOf(start.AddDate(1, 0, -1))}
	default:
		target := day.AddDate(0, 0, -offset)
		return Range{Start: DateOf(target), End: DateOf(target)}
	}
}
