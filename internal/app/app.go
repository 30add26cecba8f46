package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/rook-computer/fractaldraw/internal/input"
	"github.com/rook-computer/fractaldraw/internal/render"
	"github.com/rook-computer/fractaldraw/internal/state"
	"github.com/rook-computer/fractaldraw/internal/system"
)

var (
	// ErrNoContainer means the page has no element to host the drawing surface.
	ErrNoContainer = errors.New("no #drawing container")
	// ErrNoContext means a drawing surface could not be obtained.
	ErrNoContext = errors.New("no drawing context")
)

// ContainerID is the id of the page element the drawing surface is created in.
const ContainerID = "drawing"

type Config struct {
	Width   int
	Height  int
	FPS     int
	History int
	Render  render.Config
}

func DefaultConfig() Config {
	return Config{
		Width:   render.CanvasWidth,
		Height:  render.CanvasHeight,
		FPS:     60,
		History: 30,
		Render:  render.DefaultConfig(),
	}
}

// App owns the drawing session and runs the frame loop. Session and Canvas
// are only touched by the goroutine inside Run.
type App struct {
	Store   *state.Store
	Session *state.Session
	Canvas  *render.Raster
	Sinks   []render.Sink
	Queue   *input.Queue
	Logger  Logger
	Config  Config
	// Console switches the active VT to graphics mode while running.
	Console bool

	rng     *rand.Rand
	seq     uint64
	resetCh chan struct{}

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, queue *input.Queue, cfg Config, sinks ...render.Sink) *App {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &App{
		Store:   store,
		Session: state.NewSession(cfg.History, rng),
		Canvas:  render.NewRaster(cfg.Width, cfg.Height),
		Sinks:   sinks,
		Queue:   queue,
		Logger:  NoopLogger{},
		Config:  cfg,
		rng:     rng,
		resetCh: make(chan struct{}, 1),
		exitCh:  make(chan error, 1),
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Reset asks the loop to replace the session with an empty one.
func (app *App) Reset() {
	select {
	case app.resetCh <- struct{}{}:
	default:
	}
}

// CheckPage verifies that page carries the drawing container.
func CheckPage(page []byte) error {
	if !bytes.Contains(page, []byte(`id="`+ContainerID+`"`)) {
		return ErrNoContainer
	}
	return nil
}

// Run starts the sinks and drives the frame loop until ctx is done or Exit is
// called. Input events are applied between frames, in arrival order.
func (app *App) Run(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.resetCh == nil {
		app.resetCh = make(chan struct{}, 1)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	app.exitOnce.Store(false)

	if err := app.startSinks(ctx); err != nil {
		app.Logger.Errorf("app", "warning: %v", err)
		app.Store.Fail(err)
		return err
	}
	defer app.stopSinks()

	if app.Console {
		_ = system.SetGraphicsModeWithLog(app.Logger)
		_ = system.HideCursorWithLog(app.Logger)
		defer func() { _ = system.ShowCursorWithLog(app.Logger); _ = system.RestoreTextModeWithLog(app.Logger) }()
	}

	w, h := app.Canvas.Size()
	app.Store.UpdateCanvas(state.CanvasInfo{Width: w, Height: h})
	app.Store.SetPhase(state.READY)
	app.Logger.Infof("app", "running at %d fps on a %dx%d canvas", app.fps(), w, h)

	// First frame without waiting for the ticker.
	app.Step()

	ticker := time.NewTicker(time.Second / time.Duration(app.fps()))
	defer ticker.Stop()

	var events <-chan input.Event
	if app.Queue != nil {
		events = app.Queue.Events()
	}
	var err error
loop:
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break loop
		case err = <-app.exitCh:
			break loop
		case ev := <-events:
			app.Handle(ev)
		case <-app.resetCh:
			app.Session = state.NewSession(app.Config.History, app.rng)
			app.Logger.Infof("app", "session reset")
		case <-ticker.C:
			app.drain(events)
			app.Step()
		}
	}
	app.Store.SetPhase(state.STOPPED)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// drain applies the events already queued so the next frame sees them.
func (app *App) drain(events <-chan input.Event) {
	for n := len(events); n > 0; n-- {
		app.Handle(<-events)
	}
}

// Handle applies one input event. Pointer positions are clamped to the canvas
// and Resize reallocates it.
func (app *App) Handle(ev input.Event) {
	if ev.Kind != input.Resize {
		w, h := app.Canvas.Size()
		ev.Pos = ev.Pos.Clamp(float64(w), float64(h))
		app.Session.Apply(ev)
		return
	}
	if app.Canvas.Resize(ev.Width, ev.Height) {
		w, h := app.Canvas.Size()
		app.Store.UpdateCanvas(state.CanvasInfo{Width: w, Height: h})
		app.Logger.Infof("app", "canvas resized to %dx%d by %s", w, h, ev.Source)
	}
}

// Step renders one frame and hands it to every sink.
func (app *App) Step() {
	snap := app.Session.Tick()
	render.Frame(app.Canvas, snap, app.Config.Render)
	img := app.Canvas.Image()
	for _, sink := range app.Sinks {
		sink.Present(img)
	}
	app.seq++
	app.Store.UpdateFrame(state.FrameInfo{
		Seq:        app.seq,
		Rectangles: len(snap.Rects),
		History:    len(snap.Points),
		Hovering:   snap.Mouse != nil,
		Dragging:   snap.ClickStart != nil,
	})
	if app.Queue != nil {
		app.Store.SetDropped(app.Queue.Dropped())
	}
}

func (app *App) startSinks(ctx context.Context) error {
	for i, sink := range app.Sinks {
		if err := sink.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = app.Sinks[j].Stop()
			}
			return fmt.Errorf("%w: %T: %v", ErrNoContext, sink, err)
		}
	}
	return nil
}

func (app *App) stopSinks() {
	for i := len(app.Sinks) - 1; i >= 0; i-- {
		if err := app.Sinks[i].Stop(); err != nil {
			app.Logger.Errorf("app", "sink stop: %v", err)
		}
	}
}

func (app *App) fps() int {
	if app.Config.FPS <= 0 {
		return 60
	}
	return app.Config.FPS
}
