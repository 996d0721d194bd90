package view

import (
	"io"
	"jornada/jornada"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type TableViewer struct {
	out io.Writer
}

func NewTableViewer(out io.Writer) *TableViewer {
	return &TableViewer{out: out}
}

// Render prints the history table of p, most recent day first.
func (t *TableViewer) Render(title string, p jornada.PeriodSummary) {
	tb := buildTableWriter(title, p)
	tb.SetOutputMirror(t.out)
	tb.Render()
}

func buildTableWriter(title string, p jornada.PeriodSummary) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Date", "Start", "End", "Description", "Regular", "Extra", "Day total"})

	for _, day := range p.DaysDescending() {
		date := day.Date.Time().Format("Mon 02/01")
		dayTotal := jornada.FormatHours(day.Total)
		for _, s := range day.Sessions {
			t.AppendRow(table.Row{
				date,
				s.StartAt.Format("15:04"),
				clockTime(s.EndAt),
				s.WorkDescription,
				jornada.FormatHours(s.RegularHours),
				jornada.FormatHours(s.ExtraHours),
				dayTotal,
			})
		}
	}
	if len(p.Days) == 0 {
		t.AppendRow(table.Row{"", "", "", "No sessions recorded for this period", "", "", ""})
	}

	average := "-"
	if avg, err := p.DailyAverage(); err == nil {
		average = jornada.FormatHours(avg)
	}
	t.AppendFooter(table.Row{"", "", "", "Total", jornada.FormatHours(p.TotalRegular), jornada.FormatHours(p.TotalExtra), jornada.FormatHours(p.TotalHours)})
	t.AppendFooter(table.Row{"", "", "", "Worked days / average", "", p.WorkedDays, average})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 7, AutoMerge: true},
	})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	return t
}
