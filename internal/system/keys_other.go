//go:build !linux

package system

import "context"

// WatchKeys is a no-op where evdev is unavailable.
func WatchKeys(ctx context.Context, l logger, bindings KeyBindings) {
	if l != nil && len(bindings) > 0 {
		l.Infof("input", "key bindings need linux evdev; ignored")
	}
}
