// Package pointset holds a fixed-capacity history of recent cursor positions.
package pointset

import (
	"fmt"

	"github.com/rook-computer/fractaldraw/internal/paint"
)

const DefaultCapacity = 30

// PointSet is a ring buffer of positions ordered oldest first.
// Index 0 is the oldest point and Len()-1 the newest.
type PointSet struct {
	buf   []paint.Position
	start int
	n     int
}

// New returns an empty set. Capacities below one fall back to DefaultCapacity.
func New(capacity int) *PointSet {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &PointSet{buf: make([]paint.Position, capacity)}
}

func (s *PointSet) Len() int { return s.n }
func (s *PointSet) Cap() int { return len(s.buf) }

// Add appends p as the newest point, evicting the oldest when full.
func (s *PointSet) Add(p paint.Position) {
	if s.n == len(s.buf) {
		s.buf[s.start] = p
		s.start = (s.start + 1) % len(s.buf)
		return
	}
	s.buf[(s.start+s.n)%len(s.buf)] = p
	s.n++
}

// Drop removes the oldest point. It does nothing when the set is empty.
func (s *PointSet) Drop() {
	if s.n == 0 {
		return
	}
	s.buf[s.start] = paint.Position{}
	s.start = (s.start + 1) % len(s.buf)
	s.n--
}

// At returns the i-th point counting from the oldest.
func (s *PointSet) At(i int) paint.Position {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("pointset: index %d out of range [0:%d]", i, s.n))
	}
	return s.buf[(s.start+i)%len(s.buf)]
}

// Points copies the history out, oldest first.
func (s *PointSet) Points() []paint.Position {
	if s.n == 0 {
		return nil
	}
	out := make([]paint.Position, s.n)
	for i := range out {
		out[i] = s.At(i)
	}
	return out
}
