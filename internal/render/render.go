package render

import (
	"context"
	"image"

	"github.com/rook-computer/fractaldraw/internal/paint"
)

// Drawer is a 2D drawing surface with canvas-context semantics: a current
// path, fill and stroke styles, a line width and an affine transform, the
// last four saved and restored as a unit.
type Drawer interface {
	// Size returns the surface size in pixels.
	Size() (width int, height int)

	Save()
	Restore()

	// SetTransform replaces the current transform with
	// x' = a*x + c*y + e, y' = b*x + d*y + f.
	SetTransform(a, b, c, d, e, f float64)
	ResetTransform()

	SetFillStyle(c paint.Color)
	SetStrokeStyle(c paint.Color)
	SetLineWidth(w float64)
	FillStyle() paint.Color
	StrokeStyle() paint.Color
	LineWidth() float64

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	ClearRect(x, y, w, h float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Stroke()
	Fill()
}

// Sink displays finished frames. Present is called from the render loop and
// must not block; img is only valid for the duration of the call.
type Sink interface {
	Start(ctx context.Context) error
	Stop() error
	Present(img *image.RGBA)
}

type NoopSink struct{}

func (NoopSink) Start(ctx context.Context) error { return nil }
func (NoopSink) Stop() error                     { return nil }
func (NoopSink) Present(img *image.RGBA)         {}
