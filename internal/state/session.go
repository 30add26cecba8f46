package state

import (
	"math/rand"
	"time"

	"github.com/rook-computer/fractaldraw/internal/input"
	"github.com/rook-computer/fractaldraw/internal/paint"
	"github.com/rook-computer/fractaldraw/internal/pointset"
)

// Session is one drawing: the pointer state, the committed rectangles and the
// cursor trail. It is not safe for concurrent use; the app loop owns it and
// applies events and ticks from a single goroutine.
type Session struct {
	mouse      *paint.Position
	clickStart *paint.Position
	rects      []paint.Rectangle
	points     *pointset.PointSet

	// RandomColor picks the color for each new rectangle.
	RandomColor func() paint.Color
}

// FrameSnapshot is what one frame paints. Slices are copies.
type FrameSnapshot struct {
	Mouse      *paint.Position
	ClickStart *paint.Position
	Rects      []paint.Rectangle
	Points     []paint.Position // oldest first
}

func NewSession(historyCapacity int, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		points:      pointset.New(historyCapacity),
		RandomColor: func() paint.Color { return paint.Random(rng) },
	}
}

func (s *Session) MouseDown(p paint.Position) {
	s.clickStart = &p
	s.mouse = ptr(p)
}

// MouseUp commits a rectangle when a drag is in progress.
func (s *Session) MouseUp(p paint.Position) {
	if s.clickStart != nil {
		s.rects = append(s.rects, paint.Rectangle{P1: *s.clickStart, P2: p, Color: s.RandomColor()})
		s.clickStart = nil
	}
	s.mouse = &p
}

func (s *Session) MouseMove(p paint.Position) {
	s.mouse = &p
}

// MouseOut forgets the pointer and abandons any drag.
func (s *Session) MouseOut() {
	s.mouse = nil
	s.clickStart = nil
}

// Apply dispatches a pointer event. Resize is handled by the canvas owner and
// ignored here.
func (s *Session) Apply(ev input.Event) {
	switch ev.Kind {
	case input.Down:
		s.MouseDown(ev.Pos)
	case input.Up:
		s.MouseUp(ev.Pos)
	case input.Move:
		s.MouseMove(ev.Pos)
	case input.Out:
		s.MouseOut()
	}
}

// Tick does the per-frame bookkeeping and returns what the frame should
// paint. While the pointer is over the surface its position joins the trail;
// otherwise the trail loses its oldest point. A drag whose pointer has left
// is cancelled without committing.
func (s *Session) Tick() FrameSnapshot {
	if s.mouse != nil {
		s.points.Add(*s.mouse)
	} else if s.points.Len() > 0 {
		s.points.Drop()
	}
	if s.clickStart != nil && s.mouse == nil {
		s.clickStart = nil
	}

	snap := FrameSnapshot{Points: s.points.Points()}
	if s.mouse != nil {
		snap.Mouse = ptr(*s.mouse)
	}
	if s.clickStart != nil {
		snap.ClickStart = ptr(*s.clickStart)
	}
	if len(s.rects) > 0 {
		snap.Rects = make([]paint.Rectangle, len(s.rects))
		copy(snap.Rects, s.rects)
	}
	return snap
}

func (s *Session) Rectangles() []paint.Rectangle {
	out := make([]paint.Rectangle, len(s.rects))
	copy(out, s.rects)
	return out
}

func (s *Session) History() *pointset.PointSet { return s.points }

func (s *Session) Mouse() (paint.Position, bool) {
	if s.mouse == nil {
		return paint.Position{}, false
	}
	return *s.mouse, true
}

func (s *Session) ClickStart() (paint.Position, bool) {
	if s.clickStart == nil {
		return paint.Position{}, false
	}
	return *s.clickStart, true
}

func (s *Session) Dragging() bool { return s.clickStart != nil }

func ptr(p paint.Position) *paint.Position { return &p }
