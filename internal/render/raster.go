package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/golang/freetype/raster"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/rook-computer/fractaldraw/internal/paint"
)

// MaxCanvasSize bounds either canvas dimension.
const MaxCanvasSize = 4096

// coordinates beyond this are clamped before conversion to 26.6 fixed point
const maxCoord = 1 << 20

var identity = f64.Aff3{1, 0, 0, 0, 1, 0}

type style struct {
	fill      paint.Color
	stroke    paint.Color
	lineWidth float64
	transform f64.Aff3
}

func defaultStyle() style {
	return style{fill: paint.Black, stroke: paint.Black, lineWidth: 1, transform: identity}
}

type subpath struct {
	points []fixed.Point26_6
	closed bool
}

// Raster is a Drawer backed by an *image.RGBA. Paths are filled with the
// non-zero winding rule and stroked with butt caps and bevel joins.
type Raster struct {
	img     *image.RGBA
	rast    *raster.Rasterizer
	painter *raster.RGBAPainter

	cur   style
	stack []style
	path  []subpath
}

func NewRaster(width, height int) *Raster {
	width, height = clampSize(width, height)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	r := &Raster{
		img:     img,
		rast:    raster.NewRasterizer(width, height),
		painter: raster.NewRGBAPainter(img),
		cur:     defaultStyle(),
	}
	r.rast.UseNonZeroWinding = true
	return r
}

// Resize reallocates the pixels and, like a canvas element, resets the
// drawing state. It reports whether the size changed.
func (r *Raster) Resize(width, height int) bool {
	width, height = clampSize(width, height)
	if width == r.img.Rect.Dx() && height == r.img.Rect.Dy() {
		return false
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.rast.SetBounds(width, height)
	r.painter = raster.NewRGBAPainter(r.img)
	r.cur = defaultStyle()
	r.stack = nil
	r.path = nil
	return true
}

// Image returns the live pixels. They change on the next draw call.
func (r *Raster) Image() *image.RGBA { return r.img }

// CopyImage returns a copy of the current pixels.
func (r *Raster) CopyImage() *image.RGBA {
	out := image.NewRGBA(r.img.Rect)
	copy(out.Pix, r.img.Pix)
	return out
}

func (r *Raster) Size() (int, int) { return r.img.Rect.Dx(), r.img.Rect.Dy() }

func (r *Raster) Save() { r.stack = append(r.stack, r.cur) }

func (r *Raster) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.cur = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Raster) SetTransform(a, b, c, d, e, f float64) {
	r.cur.transform = f64.Aff3{a, c, e, b, d, f}
}

func (r *Raster) ResetTransform() { r.cur.transform = identity }

func (r *Raster) SetFillStyle(c paint.Color)   { r.cur.fill = c }
func (r *Raster) SetStrokeStyle(c paint.Color) { r.cur.stroke = c }
func (r *Raster) FillStyle() paint.Color       { return r.cur.fill }
func (r *Raster) StrokeStyle() paint.Color     { return r.cur.stroke }
func (r *Raster) LineWidth() float64           { return r.cur.lineWidth }

// SetLineWidth ignores non-positive and non-finite widths, as a canvas does.
func (r *Raster) SetLineWidth(w float64) {
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return
	}
	r.cur.lineWidth = w
}

func (r *Raster) BeginPath() { r.path = r.path[:0] }

func (r *Raster) MoveTo(x, y float64) {
	r.path = append(r.path, subpath{points: []fixed.Point26_6{r.point(x, y)}})
}

func (r *Raster) LineTo(x, y float64) {
	if len(r.path) == 0 {
		r.MoveTo(x, y)
		return
	}
	last := &r.path[len(r.path)-1]
	last.points = append(last.points, r.point(x, y))
}

// ClosePath marks the current subpath closed and starts a new one at its
// first point.
func (r *Raster) ClosePath() {
	if len(r.path) == 0 {
		return
	}
	last := &r.path[len(r.path)-1]
	if len(last.points) == 0 {
		return
	}
	last.closed = true
	r.path = append(r.path, subpath{points: []fixed.Point26_6{last.points[0]}})
}

func (r *Raster) Stroke() {
	var p raster.Path
	for _, sp := range r.path {
		pts := sp.points
		if sp.closed {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		pts = dedupe(pts)
		if len(pts) < 2 {
			continue
		}
		p.Start(pts[0])
		for _, q := range pts[1:] {
			p.Add1(q)
		}
	}
	if len(p) == 0 {
		return
	}
	width := toFixed(r.cur.lineWidth * transformScale(r.cur.transform))
	if width <= 0 {
		return
	}
	r.rast.Clear()
	raster.Stroke(r.rast, p, width, raster.ButtCapper, raster.BevelJoiner)
	r.paint(r.cur.stroke)
}

func (r *Raster) Fill() {
	r.rast.Clear()
	filled := false
	for _, sp := range r.path {
		pts := dedupe(sp.points)
		if len(pts) < 3 {
			continue
		}
		r.rast.Start(pts[0])
		for _, q := range pts[1:] {
			r.rast.Add1(q)
		}
		r.rast.Add1(pts[0])
		filled = true
	}
	if filled {
		r.paint(r.cur.fill)
	}
}

func (r *Raster) FillRect(x, y, w, h float64) {
	if rect, ok := r.pixelRect(x, y, w, h); ok {
		op := draw.Over
		if r.cur.fill.Alpha() >= 1 {
			op = draw.Src
		}
		draw.Draw(r.img, rect, image.NewUniform(r.cur.fill), image.Point{}, op)
		return
	}
	saved := r.path
	r.path = rectPath(r, x, y, w, h)
	r.Fill()
	r.path = saved
}

func (r *Raster) StrokeRect(x, y, w, h float64) {
	saved := r.path
	r.path = rectPath(r, x, y, w, h)
	r.Stroke()
	r.path = saved
}

// ClearRect makes the covered pixels transparent. Under a rotating or
// shearing transform the cleared area is the transformed bounding box.
func (r *Raster) ClearRect(x, y, w, h float64) {
	x0, y0 := r.apply(x, y)
	x1, y1 := r.apply(x+w, y+h)
	x2, y2 := r.apply(x+w, y)
	x3, y3 := r.apply(x, y+h)
	minX := math.Floor(math.Min(math.Min(x0, x1), math.Min(x2, x3)))
	minY := math.Floor(math.Min(math.Min(y0, y1), math.Min(y2, y3)))
	maxX := math.Ceil(math.Max(math.Max(x0, x1), math.Max(x2, x3)))
	maxY := math.Ceil(math.Max(math.Max(y0, y1), math.Max(y2, y3)))
	rect := image.Rect(clampInt(minX), clampInt(minY), clampInt(maxX), clampInt(maxY))
	draw.Draw(r.img, rect, image.Transparent, image.Point{}, draw.Src)
}

func (r *Raster) paint(c paint.Color) {
	if c.Alpha() <= 0 {
		r.rast.Clear()
		return
	}
	r.painter.SetColor(c)
	r.rast.Rasterize(r.painter)
	r.rast.Clear()
}

// pixelRect reports the device rectangle for (x,y,w,h) when the transform is
// a pure translation and every edge lands on a pixel boundary.
func (r *Raster) pixelRect(x, y, w, h float64) (image.Rectangle, bool) {
	t := r.cur.transform
	if t[0] != 1 || t[1] != 0 || t[3] != 0 || t[4] != 1 {
		return image.Rectangle{}, false
	}
	x0, y0 := x+t[2], y+t[5]
	x1, y1 := x0+w, y0+h
	for _, v := range []float64{x0, y0, x1, y1} {
		if v != math.Trunc(v) || math.Abs(v) > maxCoord {
			return image.Rectangle{}, false
		}
	}
	return image.Rect(int(x0), int(y0), int(x1), int(y1)), true
}

func (r *Raster) apply(x, y float64) (float64, float64) {
	t := r.cur.transform
	return t[0]*x + t[1]*y + t[2], t[3]*x + t[4]*y + t[5]
}

func (r *Raster) point(x, y float64) fixed.Point26_6 {
	dx, dy := r.apply(x, y)
	return fixed.Point26_6{X: toFixed(dx), Y: toFixed(dy)}
}

// rectPath builds a closed rectangle in device space using r's transform.
func rectPath(r *Raster, x, y, w, h float64) []subpath {
	return []subpath{{
		points: []fixed.Point26_6{
			r.point(x, y),
			r.point(x+w, y),
			r.point(x+w, y+h),
			r.point(x, y+h),
		},
		closed: true,
	}}
}

func dedupe(pts []fixed.Point26_6) []fixed.Point26_6 {
	if len(pts) < 2 {
		return pts
	}
	out := make([]fixed.Point26_6, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

func transformScale(t f64.Aff3) float64 {
	det := t[0]*t[4] - t[1]*t[3]
	return math.Sqrt(math.Abs(det))
}

func toFixed(v float64) fixed.Int26_6 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > maxCoord:
		v = maxCoord
	case v < -maxCoord:
		v = -maxCoord
	}
	return fixed.Int26_6(math.Round(v * 64))
}

func clampInt(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v > maxCoord:
		return maxCoord
	case v < -maxCoord:
		return -maxCoord
	}
	return int(v)
}

func clampSize(width, height int) (int, int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width > MaxCanvasSize {
		width = MaxCanvasSize
	}
	if height > MaxCanvasSize {
		height = MaxCanvasSize
	}
	return width, height
}
