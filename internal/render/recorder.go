package render

import "github.com/rook-computer/fractaldraw/internal/paint"

// Op is one recorded draw call together with the style in effect.
type Op struct {
	Name      string
	Args      []float64
	Fill      paint.Color
	Stroke    paint.Color
	LineWidth float64
}

// Recorder is a Drawer that paints nothing and remembers every call.
type Recorder struct {
	Width  int
	Height int
	Ops    []Op

	cur   style
	stack []style
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height, cur: defaultStyle()}
}

func (r *Recorder) record(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args, Fill: r.cur.fill, Stroke: r.cur.stroke, LineWidth: r.cur.lineWidth})
}

// Count returns how many recorded ops have the given name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Filter returns the recorded ops with the given name, in order.
func (r *Recorder) Filter(name string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.cur)
	r.record("save")
}

func (r *Recorder) Restore() {
	if len(r.stack) > 0 {
		r.cur = r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
	}
	r.record("restore")
}

// Depth is the number of unmatched Save calls.
func (r *Recorder) Depth() int { return len(r.stack) }

func (r *Recorder) SetTransform(a, b, c, d, e, f float64) {
	r.cur.transform = [6]float64{a, c, e, b, d, f}
	r.record("setTransform", a, b, c, d, e, f)
}

func (r *Recorder) ResetTransform() {
	r.cur.transform = identity
	r.record("resetTransform")
}

func (r *Recorder) SetFillStyle(c paint.Color)   { r.cur.fill = c }
func (r *Recorder) SetStrokeStyle(c paint.Color) { r.cur.stroke = c }
func (r *Recorder) SetLineWidth(w float64)       { r.cur.lineWidth = w }
func (r *Recorder) FillStyle() paint.Color       { return r.cur.fill }
func (r *Recorder) StrokeStyle() paint.Color     { return r.cur.stroke }
func (r *Recorder) LineWidth() float64           { return r.cur.lineWidth }

func (r *Recorder) FillRect(x, y, w, h float64)   { r.record("fillRect", x, y, w, h) }
func (r *Recorder) StrokeRect(x, y, w, h float64) { r.record("strokeRect", x, y, w, h) }
func (r *Recorder) ClearRect(x, y, w, h float64)  { r.record("clearRect", x, y, w, h) }

func (r *Recorder) BeginPath()          { r.record("beginPath") }
func (r *Recorder) MoveTo(x, y float64) { r.record("moveTo", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.record("lineTo", x, y) }
func (r *Recorder) ClosePath()          { r.record("closePath") }
func (r *Recorder) Stroke()             { r.record("stroke") }
func (r *Recorder) Fill()               { r.record("fill") }
