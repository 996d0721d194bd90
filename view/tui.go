package view

import (
	"context"
	"errors"
	"fmt"
	"jornada/jornada"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// refreshInterval is how often the dashboard re-reads today to notice clock
// in/out done by another process.
const refreshInterval = 15 * time.Second

// Dashboard is the live terminal view of today: ticking regular/extra
// counters, the day's sessions and clock in/out actions.
type Dashboard struct {
	clock   *jornada.Clock
	ticker  *jornada.Ticker
	repo    ViewRepository
	logger  *slog.Logger
	now     func() time.Time
	refresh time.Duration

	app      *tview.Application
	flex     *tview.Flex
	counters *tview.TextView
	sessions *tview.Table
	status   *tview.TextView
	day      jornada.Day
}

func NewDashboard(clock *jornada.Clock, ticker *jornada.Ticker, repo ViewRepository, logger *slog.Logger) *Dashboard {
	return &Dashboard{
		clock:   clock,
		ticker:  ticker,
		repo:    repo,
		logger:  logger,
		now:     time.Now,
		refresh: refreshInterval,
	}
}

func (d *Dashboard) Run(ctx context.Context) error {
	d.app = tview.NewApplication()
	d.counters = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	d.counters.SetBorder(true).SetTitle(" Today ")
	d.sessions = tview.NewTable().SetBorders(true)
	d.status = tview.NewTextView().SetDynamicColors(true).
		SetText("[yellow]i[-] clock in  [yellow]o[-] clock out  [yellow]h[-] week history  [yellow]q[-] quit")

	d.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(d.counters, 7, 0, false).
		AddItem(d.sessions, 0, 1, true).
		AddItem(d.status, 1, 0, false)

	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if d.app.GetFocus() != d.sessions {
			return event
		}
		switch event.Rune() {
		case 'i':
			d.clockIn(ctx)
			return nil
		case 'o':
			d.showClockOutForm(ctx)
			return nil
		case 'h':
			d.showHistory(ctx)
			return nil
		case 'q':
			d.app.Stop()
			return nil
		}
		return event
	})

	if err := d.reload(ctx); err != nil {
		return err
	}
	defer d.ticker.Stop()

	storeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.watchStore(storeCtx)
	return d.app.SetRoot(d.flex, true).SetFocus(d.sessions).Run()
}

// reload re-reads today and restarts the ticker on the new snapshot. It runs
// on the UI goroutine (or before Run), so it renders the initial state directly.
func (d *Dashboard) reload(ctx context.Context) error {
	day, err := d.clock.LoadDay(ctx, jornada.DateOf(d.now()))
	if err != nil {
		return err
	}
	d.apply(day)
	return nil
}

func (d *Dashboard) apply(day jornada.Day) {
	d.day = day
	fillSessionTable(d.sessions, day)
	d.renderCounters(d.clock.Tick(day, d.now()))
	d.ticker.Start(day, d.onTick)
}

// watchStore periodically re-reads today from the UI goroutine until ctx ends.
func (d *Dashboard) watchStore(ctx context.Context) {
	tk := time.NewTicker(d.refresh)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			d.app.QueueUpdateDraw(func() {
				if err := d.refreshDay(ctx); err != nil {
					d.showError(err)
				}
			})
		}
	}
}

// refreshDay applies today's stored state when it no longer matches the
// snapshot being shown, e.g. after `jornada out` or watch mode clocked out.
func (d *Dashboard) refreshDay(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	day, err := d.clock.LoadDay(ctx, jornada.DateOf(d.now()))
	if err != nil {
		return err
	}
	if sameDay(d.day, day) {
		return nil
	}
	d.logger.Debug("day changed outside the dashboard", slog.String("date", string(day.Date)))
	d.apply(day)
	return nil
}

// sameDay reports whether two snapshots hold the same sessions in the same state.
func sameDay(a, b jornada.Day) bool {
	if a.Date != b.Date || len(a.Closed) != len(b.Closed) {
		return false
	}
	if (a.Active == nil) != (b.Active == nil) {
		return false
	}
	if a.Active != nil && a.Active.ID != b.Active.ID {
		return false
	}
	for i := range a.Closed {
		if a.Closed[i].ID != b.Closed[i].ID {
			return false
		}
	}
	return true
}

// onTick runs on the ticker goroutine.
func (d *Dashboard) onTick(lt jornada.LiveTotals, err error) {
	d.app.QueueUpdateDraw(func() {
		if d.day.Active == nil || d.day.Active.ID != lt.SessionID {
			// tick of a superseded session
			return
		}
		d.renderCounters(lt, err)
	})
}

func (d *Dashboard) renderCounters(lt jornada.LiveTotals, err error) {
	if errors.Is(err, jornada.ErrInvalidInterval) {
		d.counters.SetText("[red]The open session started on another day.[-]\nClose it with: jornada out --date " + string(d.day.Date) + " --at HH:MM")
		return
	} else if err != nil {
		d.counters.SetText("[red]" + err.Error())
		return
	}
	d.counters.SetText(formatCounters(lt))
}

func formatCounters(lt jornada.LiveTotals) string {
	state := "[grey]not clocked in[-]"
	if lt.State == jornada.StateSessionActive {
		state = fmt.Sprintf("[green]working[-] for %s", jornada.FormatHours(lt.Elapsed))
	}
	return fmt.Sprintf("%s\n\n[white]Regular[-]  %s\n[orange]Extra[-]    %s\n[white]Total[-]    %s",
		state,
		jornada.FormatHours(lt.Regular),
		jornada.FormatHours(lt.Extra),
		jornada.FormatHours(lt.Total),
	)
}

func (d *Dashboard) clockIn(ctx context.Context) {
	if _, err := d.clock.ClockIn(ctx, d.now()); err != nil {
		d.showError(err)
		return
	}
	if err := d.reload(ctx); err != nil {
		d.showError(err)
	}
}

func (d *Dashboard) showClockOutForm(ctx context.Context) {
	if err := d.refreshDay(ctx); err != nil {
		d.showError(err)
		return
	}
	if d.day.State() != jornada.StateSessionActive {
		d.showError(jornada.ErrNoActiveSession)
		return
	}
	description := ""
	form := tview.NewForm().
		AddInputField("What did you work on?", "", 0, nil, func(text string) {
			description = text
		})
	closeForm := func() {
		d.flex.RemoveItem(form)
		d.app.SetFocus(d.sessions)
	}
	form.
		AddButton("Clock out", func() {
			defer closeForm()
			if _, err := d.clock.ClockOut(ctx, d.now(), description); err != nil {
				d.showError(err)
				return
			}
			if err := d.reload(ctx); err != nil {
				d.showError(err)
			}
		}).
		AddButton("Cancel", closeForm)
	form.SetBorder(true).SetTitle(" Clock out ").SetTitleAlign(tview.AlignLeft)

	d.flex.AddItem(form, 7, 0, true)
	d.app.SetFocus(form)
}

func (d *Dashboard) showHistory(ctx context.Context) {
	r := jornada.PeriodRange(jornada.PeriodWeek, d.now(), 0)
	p, err := d.repo.Summary(ctx, r)
	if err != nil {
		d.showError(err)
		return
	}
	history := newSummaryTable(p)
	history.SetBorder(true).SetTitle(" " + PeriodTitle(jornada.PeriodWeek, r) + " (esc to close) ")
	history.SetDoneFunc(func(key tcell.Key) {
		d.flex.RemoveItem(history)
		d.app.SetFocus(d.sessions)
	})
	d.flex.AddItem(history, 0, 1, true)
	d.app.SetFocus(history)
}

func (d *Dashboard) showError(err error) {
	d.logger.Error("dashboard", slog.String("error", err.Error()))
	d.status.SetText("[red]" + err.Error())
}

func fillSessionTable(table *tview.Table, day jornada.Day) {
	table.Clear()
	for col, h := range []string{"Start", "End", "Regular", "Extra", "Description"} {
		table.SetCell(0, col, tview.NewTableCell(h).SetAlign(tview.AlignCenter).SetSelectable(false))
	}
	row := 1
	for _, s := range day.Closed {
		table.SetCell(row, 0, newTimeCell(&s.StartAt))
		table.SetCell(row, 1, newTimeCell(s.EndAt))
		table.SetCell(row, 2, tview.NewTableCell(jornada.FormatHours(s.RegularHours)).SetAlign(tview.AlignCenter))
		table.SetCell(row, 3, tview.NewTableCell(jornada.FormatHours(s.ExtraHours)).SetAlign(tview.AlignCenter))
		table.SetCell(row, 4, tview.NewTableCell(s.WorkDescription))
		row++
	}
	if day.Active != nil {
		table.SetCell(row, 0, newTimeCell(&day.Active.StartAt).SetTextColor(tcell.ColorGreen))
		table.SetCell(row, 1, newTimeCell(nil))
		table.SetCell(row, 4, tview.NewTableCell("in progress").SetTextColor(tcell.ColorGreen))
	}
}

// newSummaryTable lists a period's days, most recent first.
func newSummaryTable(p jornada.PeriodSummary) *tview.Table {
	table := tview.NewTable().SetBorders(true)
	for col, h := range []string{"Date", "Regular", "Extra", "Total"} {
		table.SetCell(0, col, tview.NewTableCell(h).SetAlign(tview.AlignCenter).SetSelectable(false))
	}
	for i, day := range p.DaysDescending() {
		table.SetCell(i+1, 0, dateToCell(day.Date))
		table.SetCell(i+1, 1, tview.NewTableCell(jornada.FormatHours(day.Regular)).SetAlign(tview.AlignCenter))
		table.SetCell(i+1, 2, tview.NewTableCell(jornada.FormatHours(day.Extra)).SetAlign(tview.AlignCenter))
		table.SetCell(i+1, 3, tview.NewTableCell(jornada.FormatHours(day.Total)).SetAlign(tview.AlignCenter))
	}
	last := len(p.Days) + 1
	table.SetCell(last, 0, tview.NewTableCell("Total").SetAlign(tview.AlignCenter))
	table.SetCell(last, 1, tview.NewTableCell(jornada.FormatHours(p.TotalRegular)).SetAlign(tview.AlignCenter))
	table.SetCell(last, 2, tview.NewTableCell(jornada.FormatHours(p.TotalExtra)).SetAlign(tview.AlignCenter))
	table.SetCell(last, 3, tview.NewTableCell(jornada.FormatHours(p.TotalHours)).SetAlign(tview.AlignCenter))
	return table
}

func dateToCell(d jornada.Date) *tview.TableCell {
	t := d.Time()
	color := tcell.ColorWhite
	switch t.Weekday() {
	case time.Saturday:
		color = tcell.ColorBlue
	case time.Sunday:
		color = tcell.ColorRed
	}
	return tview.NewTableCell(" " + t.Format("Mon 02/01") + " ").SetTextColor(color).SetAlign(tview.AlignCenter)
}

func newTimeCell(t *time.Time) *tview.TableCell {
	return tview.NewTableCell("  " + clockTime(t) + "  ").SetAlign(tview.AlignCenter)
}
