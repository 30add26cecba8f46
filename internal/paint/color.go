package paint

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an sRGB value plus straight (non-premultiplied) alpha.
// Transforms return new values; a Color is never modified in place.
type Color struct {
	rgb   colorful.Color
	alpha float64
}

var (
	Black     = RGB(0x00, 0x00, 0x00)
	White     = RGB(0xFF, 0xFF, 0xFF)
	Blue      = RGB(0x00, 0x00, 0xFF)
	Grey      = RGB(0x80, 0x80, 0x80)
	LightGrey = RGB(0xD3, 0xD3, 0xD3)
)

var named = map[string]Color{
	"black":     Black,
	"white":     White,
	"blue":      Blue,
	"grey":      Grey,
	"gray":      Grey,
	"lightgrey": LightGrey,
	"lightgray": LightGrey,
}

// RGB returns an opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{rgb: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, alpha: 1}
}

// FromColor converts any image/color value.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	out := RGB(n.R, n.G, n.B)
	out.alpha = float64(n.A) / 255
	return out
}

// Random returns an opaque color with each channel drawn uniformly from rng.
func Random(rng *rand.Rand) Color {
	return Color{rgb: colorful.Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}, alpha: 1}
}

// Parse accepts "#rrggbb" or one of the named colors (black, white, blue,
// grey, lightgrey).
func Parse(s string) (Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[key]; ok {
		return c, nil
	}
	rgb, err := colorful.Hex(key)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{rgb: rgb, alpha: 1}, nil
}

// Darken reduces HSL lightness by ratio: 0.25 keeps 75% of it.
func (c Color) Darken(ratio float64) Color {
	h, s, l := c.rgb.Hsl()
	l -= l * ratio
	return Color{rgb: colorful.Hsl(h, s, clamp01(l)).Clamped(), alpha: c.alpha}
}

// Lighten raises HSL lightness by ratio of its current value.
func (c Color) Lighten(ratio float64) Color {
	h, s, l := c.rgb.Hsl()
	l += l * ratio
	return Color{rgb: colorful.Hsl(h, s, clamp01(l)).Clamped(), alpha: c.alpha}
}

// Fade reduces alpha by ratio: 0.7 keeps 30% of the opacity.
func (c Color) Fade(ratio float64) Color {
	c.alpha = clamp01(c.alpha - c.alpha*ratio)
	return c
}

// WithAlpha returns c with alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.alpha = clamp01(a)
	return c
}

func (c Color) Alpha() float64 { return c.alpha }

// Lightness is the HSL lightness in [0,1].
func (c Color) Lightness() float64 {
	_, _, l := c.rgb.Hsl()
	return l
}

// Luminance is the Rec. 709 weighted sum of the sRGB channels.
func (c Color) Luminance() float64 {
	k := c.rgb.Clamped()
	return 0.2126*k.R + 0.7152*k.G + 0.0722*k.B
}

func (c Color) Hex() string { return c.rgb.Clamped().Hex() }

// String renders the color in CSS form.
func (c Color) String() string {
	r, g, b := c.rgb.Clamped().RGB255()
	if c.alpha >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, trimFloat(c.alpha))
}

// NRGBA returns the 8-bit straight-alpha form.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.rgb.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(c.alpha * 255))}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
