package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Hub tracks live connections by user. A user may hold several at once.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool

	register   chan registration
	unregister chan *Client
	done       chan struct{}
	seq        atomic.Int64
}

// registration asks Run to add client and close added once it has.
type registration struct {
	client *Client
	added  chan struct{}
}

// Compile-time check that *Hub satisfies Publisher.
var _ Publisher = (*Hub)(nil)

// NewHub creates an idle Hub. Call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan registration),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case reg := <-h.register:
			h.add(reg.client)
			close(reg.added)
		case c := <-h.unregister:
			h.remove(c)
		case <-ctx.Done():
			h.shutdown()
			return
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.userID]; !ok {
		h.clients[c.userID] = make(map[*Client]bool)
	}
	h.clients[c.userID][c] = true
	slog.Debug("ws_connected", "user_id", c.userID, "connections", len(h.clients[c.userID]))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.userID]
	if !ok || !set[c] {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	slog.Debug("ws_disconnected", "user_id", c.userID, "remaining", len(set))
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	close(h.done)
	for _, set := range h.clients {
		for c := range set {
			close(c.send)
		}
	}
	h.clients = make(map[string]map[*Client]bool)
	slog.Info("ws_hub_shutdown")
}

// PublishToUser sends event to every connection userID holds.
// Slow connections whose buffer is full are dropped.
func (h *Hub) PublishToUser(userID string, event Event) {
	event.Seq = h.seq.Add(1)
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("ws_marshal_failed", "op", event.Op, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[userID] {
		h.deliver(c, data)
	}
}

// deliver queues data on c. The caller holds h.mu.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("ws_send_buffer_full", "user_id", c.userID)
		go h.leave(c)
	}
}

// sendTo queues data on c if it is still registered.
func (h *Hub) sendTo(c *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.clients[c.userID][c] {
		h.deliver(c, data)
	}
}

// admit queues the ready frame on c, then registers it. The frame goes
// straight into the fresh send buffer so it is always first on the wire.
func (h *Hub) admit(c *Client) bool {
	data, err := json.Marshal(Event{Op: OpReady, Data: map[string]string{"user_id": c.userID}})
	if err != nil {
		return false
	}
	c.send <- data
	return h.join(c)
}

// join registers c unless the hub has stopped. It returns once c is in the
// client set, so events published afterwards reach it.
func (h *Hub) join(c *Client) bool {
	added := make(chan struct{})
	select {
	case h.register <- registration{client: c, added: added}:
	case <-h.done:
		return false
	}
	<-added
	return true
}

// leave unregisters c. It never blocks once the hub has stopped.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Connections returns how many live connections userID holds.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
