package render

import (
	"math"
	"testing"

	"github.com/rook-computer/fractaldraw/internal/paint"
	"github.com/rook-computer/fractaldraw/internal/state"
)

func pos(x, y float64) *paint.Position {
	p := paint.Pos(x, y)
	return &p
}

func TestFrameBackgroundUnderIdentity(t *testing.T) {
	rec := NewRecorder(320, 200)
	rec.SetTransform(2, 0, 0, 2, 10, 10)
	Frame(rec, state.FrameSnapshot{}, DefaultConfig())

	want := []string{"save", "resetTransform", "fillRect", "restore"}
	start := 1
	for i, name := range want {
		if rec.Ops[start+i].Name != name {
			t.Fatalf("op %d = %s, want %s", start+i, rec.Ops[start+i].Name, name)
		}
	}
	bg := rec.Ops[start+2]
	if bg.Args[0] != 0 || bg.Args[1] != 0 || bg.Args[2] != 320 || bg.Args[3] != 200 {
		t.Fatalf("background rect %v", bg.Args)
	}
	if bg.Fill.Hex() != paint.LightGrey.Hex() {
		t.Fatalf("background %s", bg.Fill.Hex())
	}
	if rec.Depth() != 0 {
		t.Fatalf("unbalanced save/restore")
	}
}

func TestFrameOrder(t *testing.T) {
	rec := NewRecorder(800, 600)
	snap := state.FrameSnapshot{
		Rects:      []paint.Rectangle{{P1: paint.Pos(10, 10), P2: paint.Pos(50, 40), Color: paint.Blue}},
		Points:     []paint.Position{paint.Pos(1, 1), paint.Pos(2, 2)},
		ClickStart: pos(100, 100),
		Mouse:      pos(140, 130),
	}
	Frame(rec, snap, DefaultConfig())

	strokes := rec.Filter("strokeRect")
	if len(strokes) != 2 {
		t.Fatalf("%d strokeRect calls, want outline and rubber band", len(strokes))
	}
	outline, band := strokes[0], strokes[1]
	if outline.LineWidth != 2 || outline.Args[2] != 40 || outline.Args[3] != 30 {
		t.Fatalf("outline %+v", outline)
	}
	if band.Stroke.Hex() != paint.Grey.Hex() {
		t.Fatalf("rubber band stroke %s", band.Stroke.Hex())
	}
	if band.Args[0] != 100 || band.Args[1] != 100 || band.Args[2] != 40 || band.Args[3] != 30 {
		t.Fatalf("rubber band %v", band.Args)
	}

	// background, then rectangle, then trail, then rubber band
	var seq []string
	for _, op := range rec.Ops {
		switch op.Name {
		case "fillRect", "strokeRect":
			seq = append(seq, op.Name)
		}
	}
	want := []string{"fillRect", "strokeRect", "fillRect", "fillRect", "strokeRect"}
	if len(seq) != len(want) {
		t.Fatalf("rect ops %v", seq)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Fatalf("rect ops %v, want %v", seq, want)
		}
	}
	if got := rec.Count("fill"); got != 4 {
		t.Fatalf("%d triangles for a 40x30 rectangle, want 4", got)
	}
	if rec.Depth() != 0 {
		t.Fatalf("unbalanced save/restore")
	}
}

func TestFrameRectangleDiagonals(t *testing.T) {
	rec := NewRecorder(800, 600)
	snap := state.FrameSnapshot{Rects: []paint.Rectangle{{P1: paint.Pos(10, 20), P2: paint.Pos(110, 220), Color: paint.Blue}}}
	Frame(rec, snap, DefaultConfig())

	moves := rec.Filter("moveTo")
	lines := rec.Filter("lineTo")
	if moves[0].Args[0] != 10 || moves[0].Args[1] != 20 || lines[0].Args[0] != 110 || lines[0].Args[1] != 220 {
		t.Fatalf("main diagonal %v -> %v", moves[0].Args, lines[0].Args)
	}
	if moves[1].Args[0] != 110 || moves[1].Args[1] != 20 || lines[1].Args[0] != 10 || lines[1].Args[1] != 220 {
		t.Fatalf("anti diagonal %v -> %v", moves[1].Args, lines[1].Args)
	}
}

func TestFrameNoRubberBandWithoutMouse(t *testing.T) {
	rec := NewRecorder(100, 100)
	Frame(rec, state.FrameSnapshot{ClickStart: pos(5, 5)}, DefaultConfig())
	if n := rec.Count("strokeRect"); n != 0 {
		t.Fatalf("%d strokeRect calls, want none", n)
	}
}

func trailAlphas(t *testing.T, mode TrailFade, n int) []float64 {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TrailFade = mode
	pts := make([]paint.Position, n)
	for i := range pts {
		pts[i] = paint.Pos(float64(i*10), 0)
	}
	rec := NewRecorder(100, 100)
	Frame(rec, state.FrameSnapshot{Points: pts}, cfg)
	rects := rec.Filter("fillRect")[1:]
	if len(rects) != n {
		t.Fatalf("%d trail rects, want %d", len(rects), n)
	}
	out := make([]float64, n)
	for i, op := range rects {
		if op.Args[0] != float64((n-1-i)*10) {
			t.Fatalf("trail drawn out of order: %v", op.Args)
		}
		if op.Args[2] != 2 || op.Args[3] != 2 {
			t.Fatalf("trail point size %v", op.Args)
		}
		out[i] = op.Fill.Alpha()
	}
	return out
}

func assertAlphas(t *testing.T, got, want []float64) {
	t.Helper()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("alphas %v, want %v", got, want)
		}
	}
}

func TestTrailFadeCumulative(t *testing.T) {
	assertAlphas(t, trailAlphas(t, FadeCumulative, 3), []float64{1, 0.3, 0.09})
}

func TestTrailFadeFlat(t *testing.T) {
	assertAlphas(t, trailAlphas(t, FadeFlat, 3), []float64{1, 0.3, 0.3})
}

func TestTrailFadeByAge(t *testing.T) {
	assertAlphas(t, trailAlphas(t, FadeByAge, 3), []float64{1, 1 - 0.7/3, 1 - 1.4/3})
}

func TestParseTrailFade(t *testing.T) {
	for in, want := range map[string]TrailFade{"": FadeCumulative, "Flat": FadeFlat, " age ": FadeByAge} {
		got, err := ParseTrailFade(in)
		if err != nil || got != want {
			t.Fatalf("ParseTrailFade(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseTrailFade("sideways"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFrameHugeRectangleIsBounded(t *testing.T) {
	rec := NewRecorder(64, 64)
	snap := state.FrameSnapshot{Rects: []paint.Rectangle{
		{P1: paint.Pos(0, 0), P2: paint.Pos(1e6, 1e6), Color: paint.Blue},
	}}
	Frame(rec, snap, DefaultConfig())
	if got, max := rec.Count("fill"), 4*triangleCount(MaxDepth); got > max {
		t.Fatalf("%d triangles filled, want at most %d", got, max)
	}
}
