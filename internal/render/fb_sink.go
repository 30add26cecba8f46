package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"

	"github.com/golang/freetype/truetype"
	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/rook-computer/fractaldraw/internal/render/layout"
)

const (
	DefaultFBDevice = "/dev/fb0"

	hudPaddingPx = 16
	hudFontSize  = 18
)

var (
	letterbox = color.RGBA{A: 0xff}
	hudText   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	hudShadow = color.RGBA{A: 0xff}
)

// FBSink shows frames on the Linux framebuffer. The logical canvas is scaled
// to fit the device and letterboxed; with HUD enabled the share URL is drawn
// as a QR code and text in the bottom-right corner.
type FBSink struct {
	Device string
	HUD    bool
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	dev    *fb.Device
	face   font.Face
	screen *image.RGBA

	mu       sync.Mutex
	pending  *image.RGBA
	fresh    bool
	shareURL string
	qr       image.Image

	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	frames   atomic.Uint64
}

func NewFBSink() *FBSink { return &FBSink{Device: DefaultFBDevice, HUD: true} }

func (s *FBSink) Start(ctx context.Context) error {
	path := s.Device
	if path == "" {
		path = DefaultFBDevice
	}
	dev, err := fb.Open(path)
	if err != nil {
		return fmt.Errorf("open framebuffer %s: %w", path, err)
	}
	s.dev = dev
	bounds := dev.Bounds()
	s.screen = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	s.infof("framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())

	s.face = s.loadFace()
	s.wake = make(chan struct{}, 1)
	s.done = make(chan struct{})
	s.running.Store(true)
	go s.loop(ctx)
	return nil
}

func (s *FBSink) Stop() error {
	s.running.Store(false)
	s.stopOnce.Do(func() {
		if s.done != nil {
			close(s.done)
		}
	})
	return nil
}

// Present copies img for the blit goroutine. A frame that arrives before the
// previous one was shown replaces it.
func (s *FBSink) Present(img *image.RGBA) {
	if !s.running.Load() || img == nil {
		return
	}
	s.mu.Lock()
	if s.pending == nil || s.pending.Rect != img.Rect {
		s.pending = image.NewRGBA(img.Rect)
	}
	copy(s.pending.Pix, img.Pix)
	s.fresh = true
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// SetShareURL sets the URL shown in the HUD. An empty url hides it.
func (s *FBSink) SetShareURL(url string) {
	code, err := ShareCode(url, defaultQRCodeSizePx)
	if err != nil {
		s.errorf("qr code for %q failed: %v", url, err)
	}
	s.mu.Lock()
	s.shareURL = url
	s.qr = code
	s.mu.Unlock()
}

// Frames returns how many frames reached the device.
func (s *FBSink) Frames() uint64 { return s.frames.Load() }

// loop owns the device from Start on and closes it when it returns.
func (s *FBSink) loop(ctx context.Context) {
	defer s.dev.Close()
	var frame *image.RGBA
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		if !s.fresh {
			s.mu.Unlock()
			continue
		}
		if frame == nil || frame.Rect != s.pending.Rect {
			frame = image.NewRGBA(s.pending.Rect)
		}
		copy(frame.Pix, s.pending.Pix)
		s.fresh = false
		h := hud{}
		if s.HUD {
			h = hud{url: s.shareURL, qr: s.qr, face: s.face}
		}
		s.mu.Unlock()

		compose(s.screen, frame, h)
		draw.Draw(s.dev, s.dev.Bounds(), s.screen, image.Point{}, draw.Src)
		s.frames.Add(1)
	}
}

func (s *FBSink) loadFace() font.Face {
	tt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		s.errorf("font parse failed, using basicfont: %v", err)
		return basicfont.Face7x13
	}
	return truetype.NewFace(tt, &truetype.Options{Size: hudFontSize, DPI: 96, Hinting: font.HintingFull})
}

func (s *FBSink) infof(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Infof("fb", format, args...)
	}
}

func (s *FBSink) errorf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Errorf("fb", format, args...)
	}
}

type hud struct {
	url  string
	qr   image.Image
	face font.Face
}

// compose letterboxes frame into dst and overlays the HUD.
func compose(dst *image.RGBA, frame *image.RGBA, h hud) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(letterbox), image.Point{}, draw.Src)
	target := layout.Fit(dst.Bounds(), frame.Rect.Dx(), frame.Rect.Dy())
	if !target.Empty() {
		xdraw.ApproxBiLinear.Scale(dst, target, frame, frame.Rect, xdraw.Src, nil)
	}
	if h.url == "" {
		return
	}
	face := h.face
	if face == nil {
		face = basicfont.Face7x13
	}

	area := layout.Inset(dst.Bounds(), hudPaddingPx)
	lineHeight := face.Metrics().Height.Ceil() + hudPaddingPx/2
	qrSize := 0
	if h.qr != nil {
		qrSize = dst.Bounds().Dy() / 4
		if b := h.qr.Bounds(); b.Dx() < qrSize {
			qrSize = b.Dx()
		}
	}
	box := layout.AnchorBottomRight(area, qrSize, qrSize+lineHeight)
	qrRect, textRect := layout.SplitHorizontal(box, qrSize)
	if h.qr != nil && !qrRect.Empty() {
		xdraw.NearestNeighbor.Scale(dst, qrRect, h.qr, h.qr.Bounds(), xdraw.Src, nil)
	}
	baseline := textRect.Max.Y - face.Metrics().Descent.Ceil()
	drawTextRight(dst, h.url, area.Max.X, baseline, face)
}

// drawTextRight draws text ending at x with a one pixel drop shadow.
func drawTextRight(img *image.RGBA, text string, x, baselineY int, face font.Face) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(hudShadow), Face: face}
	width := d.MeasureString(text).Ceil()
	left := x - width
	if left < 0 {
		left = 0
	}
	d.Dot = fixed.P(left+1, baselineY+1)
	d.DrawString(text)
	d.Src = image.NewUniform(hudText)
	d.Dot = fixed.P(left, baselineY)
	d.DrawString(text)
}
