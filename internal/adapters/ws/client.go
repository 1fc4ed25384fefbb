package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 90 * time.Second
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is a single websocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
	mu     sync.Mutex
}

// ReadPump reads heartbeats until the connection drops, then unregisters.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("ws_unexpected_close", "user_id", c.userID, "error", err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			slog.Debug("ws_invalid_message", "user_id", c.userID, "error", err)
			continue
		}
		switch ev.Op {
		case OpHeartbeat:
			if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
				return
			}
			c.enqueue(Event{Op: OpHeartbeatAck})
		default:
			slog.Debug("ws_unknown_op", "user_id", c.userID, "op", ev.Op)
		}
	}
}

// enqueue queues a direct reply without blocking the read loop.
func (c *Client) enqueue(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	c.hub.sendTo(c, data)
}

// WritePump writes queued events until the hub closes the send channel.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *Client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
