package view

import (
	"fmt"
	"jornada/jornada"
	"strings"
	"time"
)

const rule = "--------------------\n"

// RenderReport formats a period summary as shareable plain text, days in
// ascending order.
func RenderReport(period jornada.Period, p jornada.PeriodSummary, generatedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s REPORT - jornada\n", strings.ToUpper(string(period)))
	fmt.Fprintf(&b, "%s\n\n", PeriodTitle(period, p.Range))

	b.WriteString(rule)
	b.WriteString("SUMMARY\n")
	b.WriteString(rule)
	fmt.Fprintf(&b, "- Worked days: %d\n", p.WorkedDays)
	fmt.Fprintf(&b, "- Regular hours: %s\n", jornada.FormatHours(p.TotalRegular))
	fmt.Fprintf(&b, "- Extra hours: %s\n", jornada.FormatHours(p.TotalExtra))
	fmt.Fprintf(&b, "- TOTAL: %s\n\n", jornada.FormatHours(p.TotalHours))

	if avg, err := p.DailyAverage(); err == nil {
		fmt.Fprintf(&b, "DAILY AVERAGE: %s\n\n", jornada.FormatHours(avg))
	}

	b.WriteString(rule)
	b.WriteString("DETAIL BY DAY\n")
	b.WriteString(rule)
	for _, day := range p.Days {
		fmt.Fprintf(&b, "\n%s\n", day.Date.Time().Format("Monday 02 January"))
		fmt.Fprintf(&b, "   Total: %s", jornada.FormatHours(day.Total))
		if day.Extra > 0 {
			fmt.Fprintf(&b, " (%s extra)", jornada.FormatHours(day.Extra))
		}
		b.WriteString("\n")
		for _, s := range day.Sessions {
			fmt.Fprintf(&b, "   - %s - %s\n", s.StartAt.Format("15:04"), clockTime(s.EndAt))
			if s.WorkDescription != "" {
				fmt.Fprintf(&b, "     %q\n", s.WorkDescription)
			}
		}
	}

	b.WriteString("\n" + rule)
	b.WriteString("Generated by jornada - work time tracking\n")
	fmt.Fprintf(&b, "%s\n", generatedAt.Format("02/01/2006 15:04"))
	return b.String()
}

// RenderDailyReport formats one day: its totals and numbered sessions.
func RenderDailyReport(date jornada.Date, p jornada.PeriodSummary) string {
	var b strings.Builder
	b.WriteString("DAILY REPORT - jornada\n")
	fmt.Fprintf(&b, "%s\n\n", date.Time().Format("Monday, 02 January 2006"))
	b.WriteString("SUMMARY:\n")
	fmt.Fprintf(&b, "- Regular hours: %s\n", jornada.FormatHours(p.TotalRegular))
	fmt.Fprintf(&b, "- Extra hours: %s\n", jornada.FormatHours(p.TotalExtra))
	fmt.Fprintf(&b, "- Total: %s\n", jornada.FormatHours(p.TotalHours))

	var sessions []jornada.WorkSession
	for _, d := range p.Days {
		if d.Date == date {
			sessions = d.Sessions
		}
	}
	if len(sessions) == 0 {
		b.WriteString("\nNo sessions recorded for this day\n")
		return b.String()
	}

	b.WriteString("\nSESSIONS:\n")
	for i, s := range sessions {
		fmt.Fprintf(&b, "\n%d. %s - %s (%s)\n", i+1, s.StartAt.Format("15:04"), clockTime(s.EndAt), jornada.FormatHours(s.TotalHours))
		if s.WorkDescription != "" {
			fmt.Fprintf(&b, "   Work: %s\n", s.WorkDescription)
		}
	}
	return b.String()
}
