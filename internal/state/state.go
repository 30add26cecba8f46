package state

import "sync"

type Phase int

const (
	BOOTING Phase = iota
	READY
	STOPPED
	ERROR
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case READY:
		return "ready"
	case STOPPED:
		return "stopped"
	case ERROR:
		return "error"
	}
	return "unknown"
}

type CanvasInfo struct {
	Width  int
	Height int
}

// FrameInfo summarizes the most recent frame.
type FrameInfo struct {
	Seq        uint64
	Rectangles int
	History    int
	Hovering   bool
	Dragging   bool
}

type InputInfo struct {
	Clients int
	Dropped uint64
}

// State is what the loop publishes for readers outside it (HTTP API, logs).
type State struct {
	Phase  Phase
	Canvas CanvasInfo
	Frame  FrameInfo
	Input  InputInfo
	Err    string
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

// Fail moves the store to ERROR and records why.
func (store *Store) Fail(err error) {
	store.mu.Lock()
	store.state.Phase = ERROR
	if err != nil {
		store.state.Err = err.Error()
	}
	store.mu.Unlock()
}

func (store *Store) UpdateCanvas(canvas CanvasInfo) {
	store.mu.Lock()
	store.state.Canvas = canvas
	store.mu.Unlock()
}

func (store *Store) UpdateFrame(frame FrameInfo) {
	store.mu.Lock()
	store.state.Frame = frame
	store.mu.Unlock()
}

func (store *Store) SetClients(n int) {
	store.mu.Lock()
	store.state.Input.Clients = n
	store.mu.Unlock()
}

func (store *Store) SetDropped(n uint64) {
	store.mu.Lock()
	store.state.Input.Dropped = n
	store.mu.Unlock()
}
