package jornada_event

import (
	"log/slog"
	"sync"
	"time"
)

type Watcher interface {
	Name() string
	Watch(onEvent func()) error
}

func NewAllWatchers(logger *slog.Logger) []Watcher {
	ws := []Watcher{
		NewKeyboardEventWatcher(),
	}
	return append(ws, platformWatchers(logger)...)
}

// throttle wraps f so that calls closer than gap to the last reported one are dropped.
func throttle(gap time.Duration, now func() time.Time, f func()) func() {
	var mu sync.Mutex
	var last time.Time
	return func() {
		mu.Lock()
		t := now()
		if !last.IsZero() && t.Sub(last) < gap {
			mu.Unlock()
			return
		}
		last = t
		mu.Unlock()
		f()
	}
}
