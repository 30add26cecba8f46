package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// WatchKeys reads Linux evdev devices under /dev/input/event* and runs the
// binding for every key press until ctx is done. Each binding runs at most
// once per press, on the reading goroutine of the device that saw it.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchKeys(ctx context.Context, l logger, bindings KeyBindings) {
	if len(bindings) == 0 {
		return
	}

	tvSize := timevalSize()
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if l != nil {
			l.Infof("input", "no evdev devices found for key bindings")
		}
		return
	}

	fire := func(code uint16) {
		if action := bindings[code]; action != nil {
			if l != nil {
				l.Infof("input", "key %d pressed", code)
			}
			action()
		}
	}

	for _, path := range paths {
		go watchDevice(ctx, path, tvSize, fire)
	}
}

func watchDevice(ctx context.Context, path string, tvSize int, fire func(code uint16)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, code := range keyPresses(buf[:n], tvSize) {
			fire(code)
		}
	}
}

// timevalSize is the size of the timeval that starts every input_event.
func timevalSize() int {
	if n := binary.Size(unix.Timeval{}); n > 0 {
		return n
	}
	return 16
}
