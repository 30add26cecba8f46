package render

import (
	"fmt"
	"strings"

	"github.com/rook-computer/fractaldraw/internal/paint"
)

// TrailFade selects how the cursor trail's alpha falls off from the newest
// point to the oldest.
type TrailFade string

const (
	// FadeCumulative fades the trail color again after every point, so the
	// n-th newest point has alpha (1-FadeRatio)^n.
	FadeCumulative TrailFade = "cumulative"
	// FadeFlat draws the newest point opaque and every other point with the
	// base color faded once.
	FadeFlat TrailFade = "flat"
	// FadeByAge computes each point's fade from its own age.
	FadeByAge TrailFade = "age"
)

func ParseTrailFade(s string) (TrailFade, error) {
	switch TrailFade(strings.ToLower(strings.TrimSpace(s))) {
	case FadeCumulative, "":
		return FadeCumulative, nil
	case FadeFlat:
		return FadeFlat, nil
	case FadeByAge:
		return FadeByAge, nil
	}
	return "", fmt.Errorf("unknown trail fade %q (want cumulative, flat or age)", s)
}

// Config holds the look of a frame.
type Config struct {
	Background paint.Color
	RubberBand paint.Color

	TrailColor paint.Color
	TrailFade  TrailFade
	FadeRatio  float64
	PointSize  float64

	OutlineWidth float64
	TileSize     float64
	DarkenRatio  float64
	MaxDepth     int
}

func DefaultConfig() Config {
	return Config{
		Background:   paint.LightGrey,
		RubberBand:   paint.Grey,
		TrailColor:   paint.Blue,
		TrailFade:    FadeCumulative,
		FadeRatio:    0.7,
		PointSize:    2,
		OutlineWidth: 2,
		TileSize:     128,
		DarkenRatio:  0.25,
		MaxDepth:     MaxDepth,
	}
}

// Logical canvas size used until a client reports its own.
var (
	CanvasWidth  = 1280
	CanvasHeight = 720
)
