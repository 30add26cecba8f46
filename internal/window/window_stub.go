//go:build !cgo && !windows && !darwin

package window

import (
	"context"
	"errors"
	"image"

	"github.com/rook-computer/fractaldraw/internal/input"
)

// ErrUnsupported is returned by Run when the binary was built without cgo.
var ErrUnsupported = errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")

type Window struct {
	Queue  *input.Queue
	Title  string
	Logger logger
}

func New(queue *input.Queue, width, height int) *Window { return &Window{Queue: queue} }

func (w *Window) Start(ctx context.Context) error { return ErrUnsupported }
func (w *Window) Stop() error                     { return nil }
func (w *Window) Present(img *image.RGBA)         {}
func (w *Window) Run(ctx context.Context) error   { return ErrUnsupported }
