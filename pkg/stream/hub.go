package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/livelayout/pkg/coords"
)

// DefaultQueueSize is the per-client frame buffer used when none is given.
const DefaultQueueSize = 64

const writeWait = 5 * time.Second

// Hub fans coordinate changes out to websocket clients. It is a store
// listener: register it with Store.AddListener.
//
// Every client has a bounded queue; when it is full, frames for that client
// are dropped rather than blocking the goroutine that changed the store.
// A client that missed frames can reconnect to get a fresh snapshot.
type Hub struct {
	store     *coords.Store[string, r2.Vec]
	logger    *log.Logger
	queueSize int
	upgrader  websocket.Upgrader

	seq     atomic.Uint64
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	closed  bool
}

type client struct {
	id      uuid.UUID
	conn    *websocket.Conn
	send    chan []byte
	dropped atomic.Int64
	once    sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// NewHub creates a hub reading positions from store. A queueSize of zero
// selects DefaultQueueSize. A nil logger uses log.Default().
func NewHub(store *coords.Store[string, r2.Vec], queueSize int, logger *log.Logger) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		store:     store,
		logger:    logger,
		queueSize: queueSize,
		clients:   make(map[uuid.UUID]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// CoordinatesChanged encodes e and queues it for every client.
func (h *Hub) CoordinatesChanged(e coords.Event[string]) {
	h.broadcast(eventFrame(h.seq.Add(1), e, h.store))
}

func (h *Hub) broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		h.logger.Error("encode frame", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.enqueue(c, data)
	}
}

// enqueue must be called with h.mu held.
func (h *Hub) enqueue(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		if c.dropped.Add(1) == 1 {
			h.logger.Warn("websocket client too slow, dropping frames", "client", c.id)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request to a websocket, sends a snapshot of the
// active positions and then streams change frames until the client goes
// away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{id: uuid.New(), conn: conn, send: make(chan []byte, h.queueSize)}
	snapshot, err := json.Marshal(snapshotFrame(h.seq.Load(), h.store))
	if err != nil {
		h.logger.Error("encode snapshot", "error", err)
		conn.Close()
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c.id] = c
	h.enqueue(c, snapshot)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "client", c.id)

	go h.writeLoop(c)
	h.readLoop(c)
}

// readLoop discards client messages and unregisters the client on error.
func (h *Hub) readLoop(c *client) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, c.id)
		h.mu.Unlock()
		c.close()
		h.logger.Debug("websocket client disconnected", "client", c.id, "dropped", c.dropped.Load())
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("websocket write failed", "client", c.id, "error", err)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}
