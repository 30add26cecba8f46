package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMarginMM = 10
	imageName    = "frame"
)

// PDF writes img centered on a single A4 landscape page, scaled to fit
// inside the margins with its aspect ratio kept.
func PDF(w io.Writer, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("export: empty image")
	}
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.SetTitle("fractaldraw", true)
	p.SetCreator("fractaldraw", true)
	p.SetCreationDate(time.Now())
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	p.RegisterImageOptionsReader(imageName, opts, &encoded)

	pageW, pageH := p.GetPageSize()
	boxW, boxH := pageW-2*pageMarginMM, pageH-2*pageMarginMM
	b := img.Bounds()
	scale := boxW / float64(b.Dx())
	if s := boxH / float64(b.Dy()); s < scale {
		scale = s
	}
	drawW, drawH := float64(b.Dx())*scale, float64(b.Dy())*scale
	x := (pageW - drawW) / 2
	y := (pageH - drawH) / 2

	p.SetDrawColor(0, 0, 0)
	p.SetLineWidth(0.3)
	p.Rect(x, y, drawW, drawH, "D")
	p.ImageOptions(imageName, x, y, drawW, drawH, false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}
