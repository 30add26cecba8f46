package export

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestPDF(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for i := range img.Pix {
		img.Pix[i] = 0xd3
		if i%4 == 3 {
			img.Pix[i] = 0xff
		}
	}
	img.SetRGBA(10, 10, color.RGBA{B: 0xff, A: 0xff})

	var buf bytes.Buffer
	if err := PDF(&buf, img); err != nil {
		t.Fatalf("PDF: %v", err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:8])
	}
	if !bytes.Contains(out, []byte("/Subtype /Image")) {
		t.Fatalf("no image object in output")
	}
}

func TestPDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PDF(&buf, image.NewRGBA(image.Rectangle{})); err == nil {
		t.Fatalf("expected error for empty image")
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %d bytes for an empty image", buf.Len())
	}
}
