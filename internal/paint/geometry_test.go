package paint

import (
	"math"
	"testing"
)

func TestRectangleSignedSize(t *testing.T) {
	r := Rectangle{P1: Pos(50, 40), P2: Pos(10, 10)}
	if r.Width() != -40 || r.Height() != -30 {
		t.Fatalf("size = %vx%v", r.Width(), r.Height())
	}
	if c := r.Center(); c != Pos(30, 25) {
		t.Fatalf("center = %v", c)
	}
	corners := r.Corners()
	want := [4]Position{Pos(50, 40), Pos(10, 40), Pos(10, 10), Pos(50, 10)}
	if corners != want {
		t.Fatalf("corners = %v, want %v", corners, want)
	}
}

func TestMidpoint(t *testing.T) {
	if m := Midpoint(Pos(0, 0), Pos(100, 0)); m != Pos(50, 0) {
		t.Fatalf("midpoint = %v", m)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		in, want Position
	}{
		{Pos(10, 20), Pos(10, 20)},
		{Pos(-5, 20), Pos(0, 20)},
		{Pos(1e6, 1e6), Pos(64, 48)},
		{Pos(64, 48), Pos(64, 48)},
		{Pos(math.NaN(), math.Inf(1)), Pos(0, 48)},
		{Pos(math.Inf(-1), 3), Pos(0, 3)},
	}
	for _, tc := range cases {
		if got := tc.in.Clamp(64, 48); got != tc.want {
			t.Fatalf("%v.Clamp = %v, want %v", tc.in, got, tc.want)
		}
	}
}
