package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rook-computer/fractaldraw/internal/export"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type canvasResponse struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type frameResponse struct {
	Seq        uint64 `json:"seq"`
	Rectangles int    `json:"rectangles"`
	History    int    `json:"history"`
	Hovering   bool   `json:"hovering"`
	Dragging   bool   `json:"dragging"`
}

type sessionResponse struct {
	Phase   string         `json:"phase"`
	Canvas  canvasResponse `json:"canvas"`
	Frame   frameResponse  `json:"frame"`
	Clients int            `json:"clients"`
	Dropped uint64         `json:"dropped"`
	Error   string         `json:"error,omitempty"`
}

func apiV1Router(handlers APIV1Handlers, deps APIV1Deps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) { handleSession(w, r, deps) })
	mux.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) { handleFramePNG(w, r, deps) })
	mux.HandleFunc("/export.pdf", func(w http.ResponseWriter, r *http.Request) { handleExportPDF(w, r, deps) })
	mux.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) { handleReset(w, r, handlers.ResetFunc) })
	return mux
}

func handleSession(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Store == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "session state not configured")
		return
	}
	snap := deps.Store.Snapshot()
	writeJSON(w, http.StatusOK, sessionResponse{
		Phase:  snap.Phase.String(),
		Canvas: canvasResponse{Width: snap.Canvas.Width, Height: snap.Canvas.Height},
		Frame: frameResponse{
			Seq:        snap.Frame.Seq,
			Rectangles: snap.Frame.Rectangles,
			History:    snap.Frame.History,
			Hovering:   snap.Frame.Hovering,
			Dragging:   snap.Frame.Dragging,
		},
		Clients: snap.Input.Clients,
		Dropped: snap.Input.Dropped,
		Error:   snap.Err,
	})
}

func handleFramePNG(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Frames == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "frames not configured")
		return
	}
	data, ok := deps.Frames.LatestPNG()
	if !ok {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func handleExportPDF(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if deps.Frames == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "frames not configured")
		return
	}
	img, ok := deps.Frames.LatestImage()
	if !ok {
		writeAPIError(w, http.StatusServiceUnavailable, "no_frame", "no frame rendered yet")
		return
	}
	// Buffer so a failed export can still report an error.
	var buf bytes.Buffer
	if err := export.PDF(&buf, img); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="fractaldraw.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func handleReset(w http.ResponseWriter, r *http.Request, resetFunc func(ctx context.Context) error) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if resetFunc == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "reset not configured")
		return
	}
	if err := resetFunc(r.Context()); err != nil {
		writeAPIError(w, http.StatusInternalServerError, "reset_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
