package jornada_event

import (
	"log/slog"
	"math"
	"time"
)

// moves shorter than this many points are treated as jitter
const mouseMoveThreshold = 100

// MouseEventWatcher polls the pointer position and reports a move once it
// travelled far enough from the last reported position.
type MouseEventWatcher struct {
	logger   *slog.Logger
	interval time.Duration
	location func() position
}

func (w *MouseEventWatcher) Name() string {
	return "MouseEventWatcher"
}

func (w *MouseEventWatcher) Watch(onEvent func()) error {
	last := w.location()
	for {
		time.Sleep(w.interval)
		current := w.location()
		distance := last.distance(current)
		w.logger.Debug("watch mouse",
			slog.Float64("currentX", current.x), slog.Float64("currentY", current.y),
			slog.Float64("lastX", last.x), slog.Float64("lastY", last.y),
			slog.Float64("distance", distance))
		if distance > mouseMoveThreshold {
			onEvent()
			last = current
		}
	}
}

type position struct {
	x, y float64
}

func (p position) distance(o position) float64 {
	return math.Hypot(p.x-o.x, p.y-o.y)
}
