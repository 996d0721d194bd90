package main

import (
	"context"
	"fmt"
	"jornada/config"
	"jornada/jornada"
	"jornada/jornada_event"
	"jornada/view"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexflint/go-filemutex"
	"github.com/mattn/go-isatty"
	"github.com/tidwall/buntdb"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		Name:  "jornada",
		Usage: "work time tracker: clock in/out, regular and extra hours, reports",
		Commands: []*cli.Command{
			inCommand,
			outCommand,
			statusCommand,
			dayCommand,
			historyCommand,
			reportCommand,
			watchCommand,
		},
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return app.RunContext(ctx, os.Args)
}

var periodFlags = []cli.Flag{
	&cli.StringFlag{Name: "period", Aliases: []string{"p"}, Value: "week", Usage: "day, week, month or year"},
	&cli.IntFlag{Name: "offset", Aliases: []string{"n"}, Usage: "how many periods back (0 = current)"},
}

var inCommand = &cli.Command{
	Name:  "in",
	Usage: "clock in",
	Action: func(c *cli.Context) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		s, err := e.clock.ClockIn(c.Context, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Clocked in at %s\n", s.StartAt.Format("15:04"))
		return nil
	},
}

var outCommand = &cli.Command{
	Name:  "out",
	Usage: "clock out, closing the open session",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "what you worked on"},
		&cli.StringFlag{Name: "at", Usage: "clock-out time HH:MM instead of now"},
		&cli.StringFlag{Name: "date", Usage: "date YYYY-MM-DD of the open session (default today)"},
	},
	Action: func(c *cli.Context) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		now := time.Now()
		date := jornada.DateOf(now)
		if v := c.String("date"); v != "" {
			if date, err = jornada.ParseDate(v); err != nil {
				return err
			}
		}
		if v := c.String("at"); v != "" {
			if now, err = atTime(date, v); err != nil {
				return err
			}
		}

		s, err := e.clock.ClockOutAt(c.Context, date, now, c.String("description"))
		if err != nil {
			return err
		}
		fmt.Printf("Clocked out at %s: %s regular, %s extra, %s total\n",
			now.Format("15:04"),
			jornada.FormatHours(s.RegularHours),
			jornada.FormatHours(s.ExtraHours),
			jornada.FormatHours(s.TotalHours))
		return nil
	},
}

var statusCommand = &cli.Command{
	Name:  "status",
	Usage: "live view of today (one-shot summary when not on a terminal)",
	Action: func(c *cli.Context) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			ticker := jornada.NewTicker(e.clock, e.cfg.TickInterval, e.logger)
			return view.NewDashboard(e.clock, ticker, e.views, e.logger).Run(c.Context)
		}

		now := time.Now()
		day, err := e.clock.LoadDay(c.Context, jornada.DateOf(now))
		if err != nil {
			return err
		}
		lt, err := e.clock.Tick(day, now)
		if err != nil {
			return err
		}
		state := "not clocked in"
		if lt.State == jornada.StateSessionActive {
			state = "working since " + day.Active.StartAt.Format("15:04")
		}
		fmt.Printf("%s\nregular %s  extra %s  total %s\n", state,
			jornada.FormatHours(lt.Regular), jornada.FormatHours(lt.Extra), jornada.FormatHours(lt.Total))
		return nil
	},
}

var dayCommand = &cli.Command{
	Name:      "day",
	Usage:     "daily report",
	ArgsUsage: "[YYYY-MM-DD]",
	Action: func(c *cli.Context) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		date := jornada.DateOf(time.Now())
		if c.Args().Present() {
			if date, err = jornada.ParseDate(c.Args().First()); err != nil {
				return err
			}
		}
		p, err := e.views.Summary(c.Context, jornada.Range{Start: date, End: date})
		if err != nil {
			return err
		}
		fmt.Print(view.RenderDailyReport(date, p))
		return nil
	},
}

var historyCommand = &cli.Command{
	Name:  "history",
	Usage: "table of closed sessions over a period",
	Flags: periodFlags,
	Action: func(c *cli.Context) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		period, r, err := periodRange(c)
		if err != nil {
			return err
		}
		p, err := e.views.Summary(c.Context, r)
		if err != nil {
			return err
		}
		view.NewTableViewer(os.Stdout).Render(view.PeriodTitle(period, r), p)
		return nil
	},
}

var reportCommand = &cli.Command{
	Name:  "report",
	Usage: "period report as text or pdf",
	Flags: append([]cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "text or pdf"},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (pdf only)"},
	}, periodFlags...),
	Action: func(c *cli.Context) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		period, r, err := periodRange(c)
		if err != nil {
			return err
		}
		p, err := e.views.Summary(c.Context, r)
		if err != nil {
			return err
		}

		now := time.Now()
		switch strings.ToLower(c.String("format")) {
		case "text":
			if period == jornada.PeriodDay {
				fmt.Print(view.RenderDailyReport(r.Start, p))
				return nil
			}
			fmt.Print(view.RenderReport(period, p, now))
			return nil
		case "pdf":
			path := c.String("out")
			if path == "" {
				path = fmt.Sprintf("jornada-%s-%s.pdf", period, r.Start)
			}
			if err := view.ExportPDF(path, period, p, now); err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", path)
			return nil
		default:
			return fmt.Errorf("unknown format %q, expected text or pdf", c.String("format"))
		}
	},
}

var watchCommand = &cli.Command{
	Name:  "watch",
	Usage: "clock in on keyboard/mouse activity and out after a long idle",
	Action: func(c *cli.Context) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.Close()

		ws := jornada_event.NewAllWatchers(e.logger)
		mgr := jornada.NewManager(e.clock, e.activity, ws, e.logger, e.cfg.PollingInterval, e.cfg.FinishAfter)
		return mgr.Watch(c.Context)
	},
}

func periodRange(c *cli.Context) (jornada.Period, jornada.Range, error) {
	period, err := jornada.ParsePeriod(c.String("period"))
	if err != nil {
		return "", jornada.Range{}, err
	}
	if c.Int("offset") < 0 {
		return "", jornada.Range{}, fmt.Errorf("offset must not be negative")
	}
	return period, jornada.PeriodRange(period, time.Now(), c.Int("offset")), nil
}

// atTime places a HH:MM clock time on date.
func atTime(date jornada.Date, hhmm string) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", hhmm, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", hhmm)
	}
	d := date.Time()
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

type env struct {
	cfg      config.Config
	logger   *slog.Logger
	clock    *jornada.Clock
	activity jornada.ActivityRepository
	views    view.ViewRepository
	closers  []func() error
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Warn("close", slog.String("error", err.Error()))
		}
	}
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	e := &env{cfg: cfg}
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "log.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, logFile.Close)
	e.logger = newLogger(logFile, cfg.LogLevel)

	repo, err := initRepository(e)
	if err != nil {
		e.Close()
		return nil, err
	}

	fm, err := filemutex.New(filepath.Join(cfg.DataDir, "jornada.lock"))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("creating lock file: %w", err)
	}
	e.closers = append(e.closers, fm.Close)

	e.clock = jornada.NewClock(repo, e.logger, jornada.NewNotificator(), fm, cfg.ThresholdHours)
	e.views = view.NewViewRepository(repo)
	return e, nil
}

func initRepository(e *env) (jornada.Repository, error) {
	switch e.cfg.Storage {
	case config.StorageSQLite:
		db, err := jornada.OpenSQLite(filepath.Join(e.cfg.DataDir, "jornada.sqlite"))
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, db.Close)
		repo := jornada.NewSQLiteRepository(db)
		e.activity = repo
		return repo, nil
	default:
		db, err := buntdb.Open(filepath.Join(e.cfg.DataDir, "jornada.db"))
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, db.Close)
		repo, err := jornada.NewBuntRepository(db)
		if err != nil {
			return nil, err
		}
		e.activity = repo
		return repo, nil
	}
}

func newLogger(out *os.File, level slog.Level) *slog.Logger {
	return slog.New(
		slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: level,
		}),
	)
}
