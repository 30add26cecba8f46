package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rook-computer/fractaldraw/internal/input"
)

const (
	clientSendBuffer = 2
	maxEventBytes    = 1024
	writeWait        = 2 * time.Second
)

// clientCounter receives the number of connected clients.
type clientCounter interface {
	SetClients(n int)
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// hello is the first text message a client receives.
type hello struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Hub is the browser binding: it is a render sink that streams PNG frames to
// every connected WebSocket client and an input source that forwards the
// clients' pointer events into Queue.
type Hub struct {
	Queue     *input.Queue
	Clients   clientCounter
	Logger    sysLogger
	StreamFPS int
	// AllowAnyOrigin disables the same-origin check on upgrade.
	AllowAnyOrigin bool

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
	frame   *image.RGBA
	dirty   bool
	png     []byte

	encMu   sync.Mutex
	scratch *image.RGBA
	enc     png.Encoder

	done     chan struct{}
	stopOnce sync.Once
	sent     atomic.Uint64
	skipped  atomic.Uint64
}

func NewHub(queue *input.Queue, clients clientCounter) *Hub {
	return &Hub{
		Queue:     queue,
		Clients:   clients,
		StreamFPS: DefaultStreamFPS,
		clients:   make(map[string]*client),
		enc:       png.Encoder{CompressionLevel: png.BestSpeed},
		done:      make(chan struct{}),
	}
}

// Start runs the encoder at StreamFPS until ctx is done or Stop is called.
func (h *Hub) Start(ctx context.Context) error {
	fps := h.StreamFPS
	if fps <= 0 {
		fps = DefaultStreamFPS
	}
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				h.closeClients()
				return
			case <-h.done:
				return
			case <-ticker.C:
				h.Flush()
			}
		}
	}()
	return nil
}

func (h *Hub) Stop() error {
	h.stopOnce.Do(func() {
		close(h.done)
		h.closeClients()
	})
	return nil
}

// Present keeps a copy of img for the next Flush.
func (h *Hub) Present(img *image.RGBA) {
	if img == nil {
		return
	}
	h.mu.Lock()
	if h.frame == nil || h.frame.Rect != img.Rect {
		h.frame = image.NewRGBA(img.Rect)
	}
	copy(h.frame.Pix, img.Pix)
	h.dirty = true
	h.mu.Unlock()
}

// Flush encodes the newest presented frame, if any arrived since the last
// call, and queues it to every client. Clients that have not drained their
// previous frames skip this one.
func (h *Hub) Flush() {
	h.encMu.Lock()
	defer h.encMu.Unlock()

	h.mu.Lock()
	if !h.dirty || h.frame == nil {
		h.mu.Unlock()
		return
	}
	if h.scratch == nil || h.scratch.Rect != h.frame.Rect {
		h.scratch = image.NewRGBA(h.frame.Rect)
	}
	copy(h.scratch.Pix, h.frame.Pix)
	h.dirty = false
	h.mu.Unlock()

	var buf bytes.Buffer
	if err := h.enc.Encode(&buf, h.scratch); err != nil {
		h.errorf("encode frame: %v", err)
		return
	}
	data := buf.Bytes()

	h.mu.Lock()
	h.png = data
	for _, c := range h.clients {
		h.deliver(c, data)
	}
	h.mu.Unlock()
}

// deliver must be called with h.mu held.
func (h *Hub) deliver(c *client, data []byte) {
	select {
	case c.send <- data:
		h.sent.Add(1)
	default:
		h.skipped.Add(1)
	}
}

// LatestPNG returns the last encoded frame.
func (h *Hub) LatestPNG() ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.png, h.png != nil
}

// LatestImage returns a copy of the last presented frame.
func (h *Hub) LatestImage() (*image.RGBA, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.frame == nil {
		return nil, false
	}
	out := image.NewRGBA(h.frame.Rect)
	copy(out.Pix, h.frame.Pix)
	return out, true
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves one client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.done:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	up := h.upgrader
	if h.AllowAnyOrigin {
		up.CheckOrigin = func(*http.Request) bool { return true }
	}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		h.errorf("upgrade: %v", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, clientSendBuffer)}
	n, latest := h.register(c)
	h.infof("client %s connected from %s (%d total)", c.id, r.RemoteAddr, n)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writeLoop(c, latest)
	}()

	h.readLoop(c)

	n = h.unregister(c)
	<-writerDone
	_ = conn.Close()
	if h.Queue != nil && !h.Queue.Push(input.Event{Kind: input.Out, Source: c.id}) {
		h.errorf("input queue full, dropped out from %s", c.id)
	}
	h.infof("client %s disconnected (%d left)", c.id, n)
}

func (h *Hub) register(c *client) (int, []byte) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	latest := h.png
	h.mu.Unlock()
	if h.Clients != nil {
		h.Clients.SetClients(n)
	}
	return n, latest
}

func (h *Hub) unregister(c *client) int {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if h.Clients != nil {
		h.Clients.SetClients(n)
	}
	return n
}

func (h *Hub) readLoop(c *client) {
	c.conn.SetReadLimit(maxEventBytes)
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.errorf("client %s read: %v", c.id, err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		ev, err := input.Decode(data)
		if err != nil {
			h.errorf("client %s: %v", c.id, err)
			continue
		}
		ev.Source = c.id
		if h.Queue != nil && !h.Queue.Push(ev) {
			h.errorf("input queue full, dropped %s from %s", ev.Kind, c.id)
		}
	}
}

func (h *Hub) writeLoop(c *client, latest []byte) {
	greeting, _ := json.Marshal(hello{Type: "hello", ID: c.id, Width: h.width(), Height: h.height()})
	if err := h.write(c, websocket.TextMessage, greeting); err != nil {
		_ = c.conn.Close()
		return
	}
	if latest != nil {
		if err := h.write(c, websocket.BinaryMessage, latest); err != nil {
			_ = c.conn.Close()
			return
		}
	}
	for data := range c.send {
		if err := h.write(c, websocket.BinaryMessage, data); err != nil {
			// unblocks readLoop
			_ = c.conn.Close()
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) write(c *client, kind int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, data)
}

// closeClients drops every connection; each client's handler then cleans up.
func (h *Hub) closeClients() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c.conn)
	}
	h.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (h *Hub) width() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.frame == nil {
		return 0
	}
	return h.frame.Rect.Dx()
}

func (h *Hub) height() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.frame == nil {
		return 0
	}
	return h.frame.Rect.Dy()
}

func (h *Hub) infof(format string, args ...interface{}) {
	if h.Logger != nil {
		h.Logger.Infof("ws", format, args...)
	}
}

func (h *Hub) errorf(format string, args ...interface{}) {
	if h.Logger != nil {
		h.Logger.Errorf("ws", format, args...)
	}
}
