package window

import (
	"github.com/rook-computer/fractaldraw/internal/input"
	"github.com/rook-computer/fractaldraw/internal/paint"
)

// Source tags every event the window produces.
const Source = "window"

// logger matches app.Logger.
type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// pointer turns polled cursor state into the discrete events a page would
// receive: move while the cursor is over the surface, down/up on the left
// button, out when it leaves.
type pointer struct {
	inside bool
	x, y   int
}

// poll returns the events for one update. Buttons only count while the
// cursor is over the surface.
func (p *pointer) poll(x, y int, inside, pressed, released bool) []input.Event {
	var out []input.Event
	at := paint.Pos(float64(x), float64(y))
	if !inside {
		if p.inside {
			out = append(out, input.Event{Kind: input.Out, Source: Source})
		}
		p.inside = false
		return out
	}
	if !p.inside || x != p.x || y != p.y {
		out = append(out, input.Event{Kind: input.Move, Pos: at, Source: Source})
	}
	p.inside, p.x, p.y = true, x, y
	if pressed {
		out = append(out, input.Event{Kind: input.Down, Pos: at, Source: Source})
	}
	if released {
		out = append(out, input.Event{Kind: input.Up, Pos: at, Source: Source})
	}
	return out
}

// sizer reports a resize event whenever the layout size changes.
type sizer struct {
	w, h int
}

func (s *sizer) layout(w, h int) (input.Event, bool) {
	if w <= 0 || h <= 0 || (w == s.w && h == s.h) {
		return input.Event{}, false
	}
	s.w, s.h = w, h
	return input.Event{Kind: input.Resize, Width: w, Height: h, Source: Source}, true
}
