package jornada

import (
	"bytes"
	"errors"
	"os/exec"
	"runtime"
)

type Notificator interface {
	Notify(title, message string) error
}

// NewNotificator returns the desktop notifier for the running platform.
func NewNotificator() Notificator {
	if runtime.GOOS == "darwin" {
		return &MacNotificator{}
	}
	return NopNotificator{}
}

type MacNotificator struct{}

func (no *MacNotificator) Notify(title string, message string) error {
	var errOut bytes.Buffer
	cmd := exec.Command("osascript", "-e", `display notification "`+message+`" with title "jornada" subtitle "`+title+`" sound name "Blow"`)
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		return errors.New(errOut.String())
	}
	return nil
}

type NopNotificator struct{}

func (NopNotificator) Notify(string, string) error { return nil }
