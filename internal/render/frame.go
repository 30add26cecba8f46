package render

import (
	"github.com/rook-computer/fractaldraw/internal/paint"
	"github.com/rook-computer/fractaldraw/internal/state"
)

// Frame paints one frame of snap: background, committed rectangles with
// their fractal ornaments, the cursor trail, then the rubber band of a drag
// in progress. The trail bookkeeping already happened in Session.Tick.
func Frame(d Drawer, snap state.FrameSnapshot, cfg Config) {
	fillBackground(d, cfg.Background)
	for _, r := range snap.Rects {
		drawRectangle(d, r, cfg)
	}
	drawTrail(d, snap.Points, cfg)
	if snap.ClickStart != nil && snap.Mouse != nil {
		drawRubberBand(d, *snap.ClickStart, *snap.Mouse, cfg.RubberBand)
	}
}

// fillBackground fills the whole surface under the identity transform.
func fillBackground(d Drawer, background paint.Color) {
	d.Save()
	d.ResetTransform()
	d.SetFillStyle(background)
	w, h := d.Size()
	d.FillRect(0, 0, float64(w), float64(h))
	d.Restore()
}

func drawRectangle(d Drawer, r paint.Rectangle, cfg Config) {
	w, h := r.Width(), r.Height()

	d.Save()
	d.SetLineWidth(cfg.OutlineWidth)
	d.StrokeRect(r.P1.X, r.P1.Y, w, h)
	d.BeginPath()
	d.MoveTo(r.P1.X, r.P1.Y)
	d.LineTo(r.P2.X, r.P2.Y)
	d.MoveTo(r.P1.X+w, r.P1.Y)
	d.LineTo(r.P2.X-w, r.P2.Y)
	d.Stroke()
	d.ClosePath()
	d.Restore()

	step := Depth(w, h, cfg.TileSize)
	if cfg.MaxDepth > 0 && step > cfg.MaxDepth {
		step = cfg.MaxDepth
	}
	center := r.Center()
	corners := r.Corners()
	for i := range corners {
		next := corners[(i+1)%len(corners)]
		DrawTriangle(d, center, corners[i], next, r.Color, cfg.DarkenRatio, step)
	}
}

// drawTrail paints newest to oldest. The fill color for each point depends on
// cfg.TrailFade; see the TrailFade constants.
func drawTrail(d Drawer, points []paint.Position, cfg Config) {
	if len(points) == 0 {
		return
	}
	d.Save()
	n := len(points)
	c := cfg.TrailColor
	for i := n - 1; i >= 0; i-- {
		if cfg.TrailFade == FadeByAge {
			age := float64(n - 1 - i)
			c = cfg.TrailColor.Fade(cfg.FadeRatio * age / float64(n))
		}
		d.SetFillStyle(c)
		p := points[i]
		d.FillRect(p.X, p.Y, cfg.PointSize, cfg.PointSize)
		switch cfg.TrailFade {
		case FadeFlat:
			c = cfg.TrailColor.Fade(cfg.FadeRatio)
		case FadeCumulative, "":
			c = c.Fade(cfg.FadeRatio)
		}
	}
	d.Restore()
}

func drawRubberBand(d Drawer, start, end paint.Position, c paint.Color) {
	d.Save()
	d.SetStrokeStyle(c)
	d.StrokeRect(start.X, start.Y, end.X-start.X, end.Y-start.Y)
	d.Restore()
}
