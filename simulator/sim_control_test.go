package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rook-computer/fractaldraw/internal/input"
	"github.com/rook-computer/fractaldraw/internal/paint"
	"github.com/rook-computer/fractaldraw/internal/state"
)

type countingResetter struct{ n int }

func (r *countingResetter) Reset() { r.n++ }

func newSimMux(queueSize int) (*http.ServeMux, *SimControl, *input.Queue, *countingResetter) {
	queue := input.NewQueue(queueSize)
	reset := &countingResetter{}
	control := NewSimControl(reset, queue)
	mux := http.NewServeMux()
	registerSimEndpoints(mux, control)
	return mux, control, queue, reset
}

func post(mux http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func drain(q *input.Queue) []input.Event {
	var out []input.Event
	for {
		select {
		case ev := <-q.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestSimEvents(t *testing.T) {
	mux, _, queue, _ := newSimMux(8)
	rec := post(mux, "/sim/events", `[{"type":"down","x":1,"y":2},{"type":"up","x":3,"y":4}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	evs := drain(queue)
	if len(evs) != 2 || evs[0].Kind != input.Down || evs[1].Pos != paint.Pos(3, 4) || evs[1].Source != simSource {
		t.Fatalf("queued %+v", evs)
	}

	if rec := post(mux, "/sim/events", `[{"type":"down"}]`); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid event: status %d", rec.Code)
	}
	if len(drain(queue)) != 0 {
		t.Fatalf("invalid script partially queued")
	}

	req := httptest.NewRequest(http.MethodGet, "/sim/events", nil)
	get := httptest.NewRecorder()
	mux.ServeHTTP(get, req)
	var counts map[string]uint64
	_ = json.Unmarshal(get.Body.Bytes(), &counts)
	if counts["injected"] != 2 {
		t.Fatalf("counts %v", counts)
	}
}

func TestSimQueueFull(t *testing.T) {
	mux, control, _, _ := newSimMux(1)
	rec := post(mux, "/sim/events", `[{"type":"move","x":1,"y":1},{"type":"move","x":2,"y":2}]`)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["ok"] != false || body["queued"] != float64(1) || control.rejected.Load() != 1 {
		t.Fatalf("body %v rejected %d", body, control.rejected.Load())
	}
}

func TestSimReset(t *testing.T) {
	mux, _, _, reset := newSimMux(8)
	if rec := post(mux, "/sim/reset", ""); rec.Code != http.StatusOK || reset.n != 1 {
		t.Fatalf("status %d resets %d", rec.Code, reset.n)
	}
}

// Each scenario, replayed through a session, ends the way its name says.
func TestScenarios(t *testing.T) {
	cases := map[string]struct {
		rects    int
		dragging bool
	}{
		"rectangle": {1, false},
		"reverse":   {1, false},
		"trail":     {0, false},
		"leave":     {0, false},
	}
	for name, want := range cases {
		events, err := Scenario(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		s := state.NewSession(30, nil)
		for _, ev := range events {
			s.Apply(ev)
			s.Tick()
		}
		if got := len(s.Rectangles()); got != want.rects || s.Dragging() != want.dragging {
			t.Fatalf("%s: %d rectangles dragging=%v", name, got, s.Dragging())
		}
	}
	if _, err := Scenario("nope"); err == nil {
		t.Fatalf("unknown scenario accepted")
	}

	mux, _, queue, _ := newSimMux(64)
	if rec := post(mux, "/sim/scenario/rectangle", ""); rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if got := len(drain(queue)); got != 4 {
		t.Fatalf("%d events queued", got)
	}
}
