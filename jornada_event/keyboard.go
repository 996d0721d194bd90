package jornada_event

import (
	"errors"
	"time"

	hook "github.com/robotn/gohook"
)

// typing produces bursts of key presses; one report per gap is enough
const keyEventGap = time.Second

// KeyboardEventWatcher reports key presses anywhere on the desktop, at most
// once per gap.
type KeyboardEventWatcher struct {
	gap time.Duration
	now func() time.Time
}

func NewKeyboardEventWatcher() *KeyboardEventWatcher {
	return &KeyboardEventWatcher{gap: keyEventGap, now: time.Now}
}

func (w *KeyboardEventWatcher) Name() string {
	return "KeyboardEventWatcher"
}

// Watch blocks while the hook runs. The hook ending is an error: watch mode
// would otherwise keep polling without ever seeing activity again.
func (w *KeyboardEventWatcher) Watch(onEvent func()) error {
	report := throttle(w.gap, w.now, onEvent)
	hook.Register(hook.KeyDown, hook.AnyKeyCmd, func(e hook.Event) {
		report()
	})

	s := hook.Start()
	<-hook.Process(s)
	return errors.New("keyboard hook stopped")
}
