package layout

import (
	"image"
	"testing"
)

func TestFit(t *testing.T) {
	cases := []struct {
		dst        image.Rectangle
		srcW, srcH int
		want       image.Rectangle
	}{
		{image.Rect(0, 0, 200, 100), 100, 100, image.Rect(50, 0, 150, 100)},
		{image.Rect(0, 0, 100, 200), 100, 50, image.Rect(0, 75, 100, 125)},
		{image.Rect(0, 0, 1920, 1080), 1280, 720, image.Rect(0, 0, 1920, 1080)},
		{image.Rect(10, 10, 110, 110), 0, 5, image.Rect(10, 10, 10, 10)},
	}
	for _, tc := range cases {
		if got := Fit(tc.dst, tc.srcW, tc.srcH); got != tc.want {
			t.Fatalf("Fit(%v, %d, %d) = %v, want %v", tc.dst, tc.srcW, tc.srcH, got, tc.want)
		}
	}
}

func TestAnchorBottomRight(t *testing.T) {
	got := AnchorBottomRight(image.Rect(0, 0, 100, 50), 30, 80)
	if want := image.Rect(70, 0, 100, 50); got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInsetAndSplit(t *testing.T) {
	r := Inset(image.Rect(0, 0, 100, 100), 10)
	if r != image.Rect(10, 10, 90, 90) {
		t.Fatalf("inset %v", r)
	}
	top, bottom := SplitHorizontal(r, 200)
	if top != r || !bottom.Empty() {
		t.Fatalf("split %v %v", top, bottom)
	}
	if got := Inset(image.Rect(0, 0, 10, 10), 8); got != image.Rect(2, 2, 8, 8) {
		t.Fatalf("over-inset %v", got)
	}
}
