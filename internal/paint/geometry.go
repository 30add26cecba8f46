package paint

import "math"

// Position is a point in canvas pixel space.
type Position struct {
	X float64
	Y float64
}

func Pos(x, y float64) Position { return Position{X: x, Y: y} }

func (p Position) Add(q Position) Position { return Position{X: p.X + q.X, Y: p.Y + q.Y} }

// Finite reports whether both coordinates are real numbers.
func (p Position) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Clamp limits p to the box [0,w] x [0,h]. NaN coordinates become 0.
func (p Position) Clamp(w, h float64) Position {
	return Position{X: clampTo(p.X, w), Y: clampTo(p.Y, h)}
}

func clampTo(v, max float64) float64 {
	switch {
	case !(v >= 0):
		return 0
	case v > max:
		return max
	}
	return v
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Position) Position {
	return Position{X: (b.X-a.X)/2 + a.X, Y: (b.Y-a.Y)/2 + a.Y}
}

// Rectangle is a committed drag. P1 is where the drag started and P2 where it
// ended; the corners are not normalized.
type Rectangle struct {
	P1    Position
	P2    Position
	Color Color
}

func (r Rectangle) Width() float64  { return r.P2.X - r.P1.X }
func (r Rectangle) Height() float64 { return r.P2.Y - r.P1.Y }

// Center is P1 offset by half the signed width and height.
func (r Rectangle) Center() Position {
	return Position{X: r.P1.X + r.Width()/2, Y: r.P1.Y + r.Height()/2}
}

// Corners walks the outline starting at P1: P1, across, P2's corner, down.
func (r Rectangle) Corners() [4]Position {
	w, h := r.Width(), r.Height()
	p1 := r.P1
	p2 := Position{X: p1.X + w, Y: p1.Y}
	p3 := Position{X: p2.X, Y: p2.Y + h}
	p4 := Position{X: p1.X, Y: p1.Y + h}
	return [4]Position{p1, p2, p3, p4}
}
