//go:build darwin

package jornada_event

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics
#import <CoreGraphics/CoreGraphics.h>
#import <Foundation/Foundation.h>

CGPoint getMouseLocation() {
    CGEventRef event = CGEventCreate(NULL);
    CGPoint cursor = CGEventGetLocation(event);
    CFRelease(event);
    return cursor;
}
*/
import "C"
import (
	"log/slog"
	"time"
)

func platformWatchers(logger *slog.Logger) []Watcher {
	return []Watcher{
		&MouseEventWatcher{
			logger:   logger,
			interval: 30 * time.Second,
			location: func() position {
				loc := C.getMouseLocation()
				return position{x: float64(loc.x), y: float64(loc.y)}
			},
		},
	}
}
