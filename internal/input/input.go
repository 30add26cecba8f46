package input

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/fractaldraw/internal/paint"
)

type Kind string

const (
	Down   Kind = "down"
	Up     Kind = "up"
	Move   Kind = "move"
	Out    Kind = "out"
	Resize Kind = "resize"
)

// Event is a pointer or surface notification. Pos is relative to the
// drawing surface's top-left corner. Width and Height are only set for Resize.
type Event struct {
	Kind   Kind
	Pos    paint.Position
	Width  int
	Height int
	Source string
}

type wireEvent struct {
	Type   string   `json:"type"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  int      `json:"width,omitempty"`
	Height int      `json:"height,omitempty"`
}

// Decode parses one JSON event as sent by the web UI, e.g.
// {"type":"down","x":10,"y":20} or {"type":"resize","width":800,"height":600}.
func Decode(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	ev := Event{Kind: Kind(w.Type)}
	switch ev.Kind {
	case Down, Up, Move:
		if w.X == nil || w.Y == nil {
			return Event{}, fmt.Errorf("%s event without position", ev.Kind)
		}
		ev.Pos = paint.Pos(*w.X, *w.Y)
		if !ev.Pos.Finite() {
			return Event{}, fmt.Errorf("%s event with non-finite position", ev.Kind)
		}
	case Out:
	case Resize:
		if w.Width <= 0 || w.Height <= 0 {
			return Event{}, fmt.Errorf("resize to %dx%d", w.Width, w.Height)
		}
		ev.Width, ev.Height = w.Width, w.Height
	default:
		return Event{}, fmt.Errorf("unknown event type %q", w.Type)
	}
	return ev, nil
}

// Source produces events from some host binding.
type Source interface {
	Events() <-chan Event
}

// ReservedSlots is the room a Queue keeps for Up and Out events once it is
// otherwise full, so a drag is still committed or cancelled under a flood of
// moves.
const ReservedSlots = 16

// Queue is a buffered event channel. Push never blocks; events that do not
// fit are counted and discarded.
type Queue struct {
	mu      sync.Mutex
	size    int
	ch      chan Event
	dropped atomic.Uint64
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{size: size, ch: make(chan Event, size+ReservedSlots)}
}

// Push queues ev and reports whether it was accepted. Down, Move and Resize
// are refused once size events are pending; Up and Out may also use the
// reserved slots.
func (q *Queue) Push(ev Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ch) >= q.size && ev.Kind != Up && ev.Kind != Out {
		q.dropped.Add(1)
		return false
	}
	select {
	case q.ch <- ev:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

func (q *Queue) Events() <-chan Event { return q.ch }

func (q *Queue) Dropped() uint64 { return q.dropped.Load() }
