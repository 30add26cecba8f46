package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rook-computer/fractaldraw/internal/state"
)

func newTestMux(t *testing.T, hub *Hub, reset func(ctx context.Context) error) (*http.ServeMux, *state.Store) {
	t.Helper()
	store := state.NewStore()
	cfg := APIV1Config{Handlers: APIV1Handlers{ResetFunc: reset}, Deps: APIV1Deps{Store: store}}
	if hub != nil {
		cfg.Deps.Frames = hub
	}
	return NewDefaultMux("", cfg, hub), store
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessionEndpoint(t *testing.T) {
	mux, store := newTestMux(t, NewHub(nil, nil), nil)
	store.SetPhase(state.READY)
	store.UpdateCanvas(state.CanvasInfo{Width: 640, Height: 480})
	store.UpdateFrame(state.FrameInfo{Seq: 7, Rectangles: 2, History: 30, Hovering: true})
	store.SetClients(3)

	rec := do(t, mux, http.MethodGet, "/api/v1/session")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Phase != "ready" || got.Canvas.Width != 640 || got.Frame.Seq != 7 || got.Frame.Rectangles != 2 || got.Clients != 3 || !got.Frame.Hovering {
		t.Fatalf("session %+v", got)
	}

	if rec := do(t, mux, http.MethodPost, "/api/v1/session"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST status %d", rec.Code)
	}
}

func TestFrameEndpoints(t *testing.T) {
	hub := NewHub(nil, nil)
	mux, _ := newTestMux(t, hub, nil)

	for _, path := range []string{"/api/v1/frame.png", "/api/v1/export.pdf"} {
		if rec := do(t, mux, http.MethodGet, path); rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s before first frame: status %d", path, rec.Code)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	hub.Present(img)
	hub.Flush()

	rec := do(t, mux, http.MethodGet, "/api/v1/frame.png")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("frame.png status %d type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("frame.png is not a PNG")
	}

	rec = do(t, mux, http.MethodGet, "/api/v1/export.pdf")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("export.pdf status %d type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("export.pdf is not a PDF")
	}
}

func TestResetEndpoint(t *testing.T) {
	mux, _ := newTestMux(t, nil, nil)
	if rec := do(t, mux, http.MethodPost, "/api/v1/reset"); rec.Code != http.StatusNotImplemented {
		t.Fatalf("unconfigured reset: status %d", rec.Code)
	}

	calls := 0
	mux, _ = newTestMux(t, nil, func(ctx context.Context) error { calls++; return nil })
	if rec := do(t, mux, http.MethodGet, "/api/v1/reset"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET reset: status %d", rec.Code)
	}
	if rec := do(t, mux, http.MethodPost, "/api/v1/reset"); rec.Code != http.StatusOK || calls != 1 {
		t.Fatalf("POST reset: status %d calls %d", rec.Code, calls)
	}

	mux, _ = newTestMux(t, nil, func(ctx context.Context) error { return errors.New("busy") })
	rec := do(t, mux, http.MethodPost, "/api/v1/reset")
	var body apiError
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if rec.Code != http.StatusInternalServerError || body.Error != "reset_failed" || body.Message != "busy" {
		t.Fatalf("failing reset: %d %+v", rec.Code, body)
	}
}

func TestFramesNotConfigured(t *testing.T) {
	mux, _ := newTestMux(t, nil, nil)
	if rec := do(t, mux, http.MethodGet, "/api/v1/frame.png"); rec.Code != http.StatusNotImplemented {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestEmbeddedUI(t *testing.T) {
	mux, _ := newTestMux(t, nil, nil)
	rec := do(t, mux, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`id="drawing"`)) {
		t.Fatalf("index page has no drawing container")
	}
}

func TestDevCORS(t *testing.T) {
	h := WithDevCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/session", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("preflight %d %v", rec.Code, rec.Header())
	}

	if rec := do(t, h, http.MethodGet, "/"); rec.Code != http.StatusTeapot {
		t.Fatalf("passthrough status %d", rec.Code)
	}
}
