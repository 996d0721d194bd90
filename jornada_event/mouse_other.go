//go:build !darwin

package jornada_event

import "log/slog"

// pointer polling needs CoreGraphics; elsewhere only the keyboard is watched
func platformWatchers(*slog.Logger) []Watcher {
	return nil
}
