package view

import (
	"context"
	"fmt"
	"jornada/jornada"
	"time"
)

// ViewRepository loads closed sessions and rolls them up for the views.
type ViewRepository interface {
	Summary(ctx context.Context, r jornada.Range) (jornada.PeriodSummary, error)
}

type viewRepository struct {
	repo jornada.Repository
}

func NewViewRepository(repo jornada.Repository) ViewRepository {
	return &viewRepository{repo}
}

func (r *viewRepository) Summary(ctx context.Context, rg jornada.Range) (jornada.PeriodSummary, error) {
	ss, err := r.repo.Filter(ctx, jornada.Filter{
		From:   rg.Start,
		To:     rg.End,
		Active: jornada.ClosedOnly(),
		Order:  jornada.OrderDateAsc,
	})
	if err != nil {
		return jornada.PeriodSummary{}, err
	}
	return jornada.Aggregate(ss, rg), nil
}

// PeriodTitle names a range the way reports head it.
func PeriodTitle(p jornada.Period, r jornada.Range) string {
	start, end := r.Start.Time(), r.End.Time()
	switch p {
	case jornada.PeriodWeek:
		return fmt.Sprintf("Week: %s - %s", start.Format("02 Jan"), end.Format("02 Jan 2006"))
	case jornada.PeriodMonth:
		return fmt.Sprintf("Month: %s", start.Format("January 2006"))
	case jornada.PeriodYear:
		return fmt.Sprintf("Year: %s", start.Format("2006"))
	default:
		return start.Format("Monday, 02 January 2006")
	}
}

func clockTime(t *time.Time) string {
	if t == nil {
		return emptyTimeStr
	}
	return t.Format("15:04")
}

const emptyTimeStr = "--:--"
