package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rook-computer/fractaldraw/internal/app"
	"github.com/rook-computer/fractaldraw/internal/input"
	"github.com/rook-computer/fractaldraw/internal/paint"
)

const (
	simSource       = "sim"
	maxScriptEvents = 4096
)

// resetter is the part of *app.App the simulator drives.
type resetter interface {
	Reset()
}

// SimControl injects scripted input so the drawing can be exercised without a
// browser.
type SimControl struct {
	app    resetter
	queue  *input.Queue
	Logger app.Logger

	injected atomic.Uint64
	rejected atomic.Uint64
}

func NewSimControl(a resetter, queue *input.Queue) *SimControl {
	return &SimControl{app: a, queue: queue}
}

func (c *SimControl) Reset() {
	if c.app != nil {
		c.app.Reset()
	}
}

// Inject queues events in order and returns how many fit in the queue.
func (c *SimControl) Inject(events []input.Event) int {
	n := 0
	for _, ev := range events {
		ev.Source = simSource
		if c.queue.Push(ev) {
			n++
			c.injected.Add(1)
		} else {
			c.rejected.Add(1)
			if c.Logger != nil {
				c.Logger.Errorf("sim", "input queue full, dropped %s", ev.Kind)
			}
		}
	}
	return n
}

// Scenario returns a named script of events.
func Scenario(name string) ([]input.Event, error) {
	at := func(kind input.Kind, x, y float64) input.Event {
		return input.Event{Kind: kind, Pos: paint.Pos(x, y)}
	}
	switch name {
	case "rectangle":
		return []input.Event{
			at(input.Down, 40, 40),
			at(input.Move, 200, 120),
			at(input.Move, 360, 300),
			at(input.Up, 360, 300),
		}, nil
	case "reverse":
		// dragged up and to the left: negative width and height
		return []input.Event{
			at(input.Down, 500, 400),
			at(input.Move, 300, 200),
			at(input.Up, 100, 80),
		}, nil
	case "trail":
		evs := make([]input.Event, 0, 41)
		for i := 0; i <= 40; i++ {
			evs = append(evs, at(input.Move, float64(20+i*10), float64(200+(i%8)*12)))
		}
		return evs, nil
	case "leave":
		return []input.Event{
			at(input.Down, 50, 50),
			at(input.Move, 150, 150),
			{Kind: input.Out},
			at(input.Up, 200, 200),
		}, nil
	}
	return nil, fmt.Errorf("unknown scenario %q (want rectangle, reverse, trail or leave)", name)
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		control.Reset()
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/events", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, map[string]any{
				"injected": control.injected.Load(),
				"rejected": control.rejected.Load(),
			})
			return
		case http.MethodPost:
			var raw []json.RawMessage
			if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&raw); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json: want an array of events")
				return
			}
			if len(raw) > maxScriptEvents {
				writeSimError(w, http.StatusRequestEntityTooLarge, "too many events")
				return
			}
			events := make([]input.Event, 0, len(raw))
			for i, msg := range raw {
				ev, err := input.Decode(msg)
				if err != nil {
					writeSimError(w, http.StatusBadRequest, fmt.Sprintf("event %d: %v", i, err))
					return
				}
				events = append(events, ev)
			}
			n := control.Inject(events)
			writeSimJSON(w, http.StatusOK, map[string]any{"ok": n == len(events), "queued": n})
			return
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
	})

	mux.HandleFunc("/sim/scenario/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/sim/scenario/"), "/")
		events, err := Scenario(name)
		if err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		n := control.Inject(events)
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": n == len(events), "scenario": name, "queued": n})
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, msg string) {
	writeSimJSON(w, status, map[string]any{"error": msg})
}
