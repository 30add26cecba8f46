package web

import (
	"context"
	"encoding/json"
	"image"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rook-computer/fractaldraw/internal/input"
	"github.com/rook-computer/fractaldraw/internal/paint"
)

type countRecorder struct {
	mu sync.Mutex
	n  []int
}

func (c *countRecorder) SetClients(n int) {
	c.mu.Lock()
	c.n = append(c.n, n)
	c.mu.Unlock()
}

func (c *countRecorder) last() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.n) == 0 {
		return -1
	}
	return c.n[len(c.n)-1]
}

func nextEvent(t *testing.T, q *input.Queue) input.Event {
	t.Helper()
	select {
	case ev := <-q.Events():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatalf("no event queued")
	}
	return input.Event{}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestHubStreamsFramesAndForwardsInput(t *testing.T) {
	queue := input.NewQueue(16)
	counts := &countRecorder{}
	hub := NewHub(queue, counts)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Stop()

	conn := dial(t, srv)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	kind, data, err := conn.ReadMessage()
	if err != nil || kind != websocket.TextMessage {
		t.Fatalf("hello: kind %d err %v", kind, err)
	}
	var greeting hello
	if err := json.Unmarshal(data, &greeting); err != nil || greeting.Type != "hello" || greeting.ID == "" {
		t.Fatalf("hello %s: %v", data, err)
	}
	if hub.ClientCount() != 1 || counts.last() != 1 {
		t.Fatalf("clients hub=%d store=%d", hub.ClientCount(), counts.last())
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"down","x":12.5,"y":40}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	// malformed events are skipped, not fatal
	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"jump"}`))
	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"up","x":50,"y":60}`))

	ev := nextEvent(t, queue)
	if ev.Kind != input.Down || ev.Pos != paint.Pos(12.5, 40) || ev.Source != greeting.ID {
		t.Fatalf("first event %+v", ev)
	}
	if ev := nextEvent(t, queue); ev.Kind != input.Up {
		t.Fatalf("second event %+v", ev)
	}

	hub.Present(image.NewRGBA(image.Rect(0, 0, 8, 8)))
	hub.Flush()
	kind, data, err = conn.ReadMessage()
	if err != nil || kind != websocket.BinaryMessage || !strings.HasPrefix(string(data), "\x89PNG") {
		t.Fatalf("frame: kind %d err %v", kind, err)
	}

	_ = conn.Close()
	if ev := nextEvent(t, queue); ev.Kind != input.Out || ev.Source != greeting.ID {
		t.Fatalf("disconnect event %+v", ev)
	}
	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != 0 || counts.last() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubSendsLatestFrameOnConnect(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.Present(image.NewRGBA(image.Rect(0, 0, 4, 3)))
	hub.Flush()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Stop()

	conn := dial(t, srv)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("hello: %v", err)
	}
	var greeting hello
	_ = json.Unmarshal(data, &greeting)
	if greeting.Width != 4 || greeting.Height != 3 {
		t.Fatalf("hello size %dx%d", greeting.Width, greeting.Height)
	}
	if kind, _, err := conn.ReadMessage(); err != nil || kind != websocket.BinaryMessage {
		t.Fatalf("latest frame: kind %d err %v", kind, err)
	}
}

func TestHubFlushWithoutNewFrame(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.Flush()
	if _, ok := hub.LatestPNG(); ok {
		t.Fatalf("png without any frame")
	}
	hub.Present(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	hub.Flush()
	first, _ := hub.LatestPNG()
	hub.Flush()
	second, _ := hub.LatestPNG()
	if &first[0] != &second[0] {
		t.Fatalf("unchanged frame re-encoded")
	}
}

func TestHubStartStop(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.StreamFPS = 100
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := hub.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	hub.Present(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, ok := hub.LatestPNG(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("encoder never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := hub.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := hub.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
