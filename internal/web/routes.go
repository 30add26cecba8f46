package web

import (
	"context"
	"image"
	"net/http"

	"github.com/rook-computer/fractaldraw/internal/state"
)

// sysLogger matches app.Logger so callers can pass it without adapters.
type sysLogger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// StateReader is the read side of state.Store.
type StateReader interface {
	Snapshot() state.State
}

// FrameSource gives the API the latest rendered frame. *Hub implements it.
type FrameSource interface {
	LatestPNG() ([]byte, bool)
	LatestImage() (*image.RGBA, bool)
}

type APIV1Handlers struct {
	// ResetFunc clears the drawing session. POST /api/v1/reset answers 501
	// when it is nil.
	ResetFunc func(ctx context.Context) error
}

type APIV1Deps struct {
	Store  StateReader
	Frames FrameSource
}

type APIV1Config struct {
	Handlers APIV1Handlers
	Deps     APIV1Deps
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg.Handlers, cfg.Deps)))
}

// RegisterStream serves the frame/input WebSocket at /ws.
func RegisterStream(mux *http.ServeMux, hub *Hub) {
	if hub != nil {
		mux.Handle("/ws", hub)
	}
}

// RegisterUI serves either embedded UI assets or a directory.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/", StaticUIHandler(staticDir))
}

// NewDefaultMux builds the standard mux used by both the device and simulator:
// - /api/v1/* for the API
// - /ws for the drawing stream
// - / for the web UI
func NewDefaultMux(staticDir string, cfg APIV1Config, hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	RegisterStream(mux, hub)
	RegisterUI(mux, staticDir)
	return mux
}
