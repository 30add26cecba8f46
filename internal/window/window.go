//go:build cgo || windows || darwin

package window

import (
	"context"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/rook-computer/fractaldraw/internal/input"
)

// Window is a desktop host: a render sink that shows frames in an ebiten
// window and an input source that polls the mouse.
type Window struct {
	Queue  *input.Queue
	Title  string
	Logger logger

	width, height int

	mu    sync.Mutex
	frame *image.RGBA
	dirty bool

	img  *ebiten.Image
	ptr  pointer
	size sizer
	ctx  context.Context
}

func New(queue *input.Queue, width, height int) *Window {
	return &Window{Queue: queue, Title: "fractaldraw", width: width, height: height, ctx: context.Background()}
}

func (w *Window) Start(ctx context.Context) error { return nil }
func (w *Window) Stop() error                     { return nil }

func (w *Window) Present(img *image.RGBA) {
	w.mu.Lock()
	if w.frame == nil || w.frame.Rect != img.Rect {
		w.frame = image.NewRGBA(img.Rect)
	}
	copy(w.frame.Pix, img.Pix)
	w.dirty = true
	w.mu.Unlock()
}

// Run opens the window and blocks until it is closed or ctx is done. It must
// be called from the main goroutine.
func (w *Window) Run(ctx context.Context) error {
	w.ctx = ctx
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(w)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

func (w *Window) Update() error {
	select {
	case <-w.ctx.Done():
		return ebiten.Termination
	default:
	}
	x, y := ebiten.CursorPosition()
	inside := ebiten.IsFocused() && x >= 0 && y >= 0 && x < w.size.w && y < w.size.h
	pressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	released := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	for _, ev := range w.ptr.poll(x, y, inside, pressed, released) {
		w.push(ev)
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	if w.frame != nil && w.dirty {
		b := w.frame.Rect
		if w.img == nil || w.img.Bounds().Dx() != b.Dx() || w.img.Bounds().Dy() != b.Dy() {
			if w.img != nil {
				w.img.Deallocate()
			}
			w.img = ebiten.NewImage(b.Dx(), b.Dy())
		}
		w.img.WritePixels(w.frame.Pix)
		w.dirty = false
	}
	w.mu.Unlock()
	if w.img != nil {
		screen.DrawImage(w.img, nil)
	}
}

// Layout keeps one logical pixel per window pixel and reports size changes
// as resize events, like a page's resize listener.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	if ev, ok := w.size.layout(outsideWidth, outsideHeight); ok {
		w.push(ev)
	}
	return outsideWidth, outsideHeight
}

func (w *Window) push(ev input.Event) {
	if w.Queue != nil && !w.Queue.Push(ev) && w.Logger != nil {
		w.Logger.Errorf("window", "input queue full, dropped %s", ev.Kind)
	}
}
