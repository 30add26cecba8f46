package render

import (
	"math"

	"github.com/rook-computer/fractaldraw/internal/paint"
)

// MaxDepth caps fractal recursion whatever the rectangle size. One rectangle
// paints at most 4 * (3^(MaxDepth+1) - 1) / 2 triangles.
const MaxDepth = 7

// minSubdivideSpan is the smallest triangle extent that is still subdivided:
// below it the children's medial triangles would be under one pixel.
const minSubdivideSpan = 4

// DrawTriangle paints the medial triangle of (p1, p2, p3): its outline in the
// current stroke style and its interior in c. While step > 0 it recurses into
// the three corner triangles with c darkened by darken and step-1, so a call
// with step k paints 1 + 3 + ... + 3^k triangles. Negative steps paint once.
func DrawTriangle(d Drawer, p1, p2, p3 paint.Position, c paint.Color, darken float64, step int) {
	if step > MaxDepth {
		step = MaxDepth
	}
	drawTriangle(d, p1, p2, p3, c, darken, step)
}

func drawTriangle(d Drawer, p1, p2, p3 paint.Position, c paint.Color, darken float64, step int) {
	m1 := paint.Midpoint(p1, p2)
	m2 := paint.Midpoint(p1, p3)
	m3 := paint.Midpoint(p2, p3)

	d.Save()
	d.SetFillStyle(c)
	d.BeginPath()
	d.MoveTo(m1.X, m1.Y)
	d.LineTo(m2.X, m2.Y)
	d.LineTo(m3.X, m3.Y)
	d.LineTo(m1.X, m1.Y)
	d.Stroke()
	d.Fill()
	d.ClosePath()
	d.Restore()

	if step > 0 && span(p1, p2, p3) >= minSubdivideSpan {
		next := c.Darken(darken)
		drawTriangle(d, p1, m1, m2, next, darken, step-1)
		drawTriangle(d, m1, p2, m3, next, darken, step-1)
		drawTriangle(d, m2, m3, p3, next, darken, step-1)
	}
}

// span is the larger side of the bounding box of a triangle.
func span(p1, p2, p3 paint.Position) float64 {
	w := math.Max(p1.X, math.Max(p2.X, p3.X)) - math.Min(p1.X, math.Min(p2.X, p3.X))
	h := math.Max(p1.Y, math.Max(p2.Y, p3.Y)) - math.Min(p1.Y, math.Min(p2.Y, p3.Y))
	return math.Max(w, h)
}

// Depth returns the recursion step for a rectangle of signed size w x h:
// one level per whole tile along the shorter side, less one when that side
// is an exact multiple of the tile so the last level is not zero-sized. The
// result never exceeds MaxDepth.
func Depth(w, h, tile float64) int {
	if tile <= 0 {
		return -1
	}
	smaller := math.Min(math.Abs(w), math.Abs(h))
	q := smaller / tile
	if math.IsNaN(q) {
		return -1
	}
	if q > MaxDepth+1 {
		return MaxDepth
	}
	step := int(math.Floor(q))
	if math.Mod(smaller, tile) == 0 {
		step--
	}
	return min(step, MaxDepth)
}
