package toast

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrHubClosed is returned when subscribing to a closed hub.
var ErrHubClosed = errors.New("toast: hub is closed")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Hub broadcasts notices to WebSocket subscribers.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	upgrader websocket.Upgrader
	logger   *slog.Logger
	onCount  func(int)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithCheckOrigin overrides the upgrader's origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) HubOption {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = fn
	}
}

// OnClientCount is called with the subscriber count whenever it changes.
func OnClientCount(fn func(int)) HubOption {
	return func(h *Hub) {
		h.onCount = fn
	}
}

// NewHub creates a Hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:  slog.Default(),
		onCount: func(int) {},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the request and subscribes the connection until it
// closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("toast upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if err := h.add(c); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) add(c *client) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.onCount(n)
	return nil
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	c.close()
	if ok {
		h.onCount(n)
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// readLoop discards inbound messages; it exists to process pongs and
// notice the peer going away.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				h.logger.Debug("toast subscriber read error", "error", err)
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Emit implements Emitter. It queues n for every subscriber and returns
// how many accepted it. Subscribers whose buffer is full are dropped.
func (h *Hub) Emit(n Notice) int {
	msg, err := n.Encode()
	if err != nil {
		h.logger.Error("toast encode failed", "error", err)
		return 0
	}

	h.mu.Lock()
	var slow []*client
	delivered := 0
	for c := range h.clients {
		select {
		case c.send <- msg:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow toast subscriber")
		h.remove(c)
	}
	return delivered
}

// Clients returns the number of subscribers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.onCount(0)
	return nil
}
