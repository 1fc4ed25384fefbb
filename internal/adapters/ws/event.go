// Package ws pushes per-user auth-state and notification events over websockets.
//
// One Hub serves every connection. Each connection is a Client with a read
// pump (heartbeats in) and a write pump (events out).
package ws

// Event is one websocket frame.
// Seq increases monotonically across all outbound events so a client can spot gaps.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client to server.
const (
	OpHeartbeat = "heartbeat"
)

// Server to client.
const (
	OpReady          = "ready"
	OpHeartbeatAck   = "heartbeat_ack"
	OpSignedIn       = "signed_in"
	OpSignedOut      = "signed_out"
	OpProfileUpdated = "profile_updated"
	OpNotification   = "notification"
)

// Publisher is what application code needs to push events to a user.
type Publisher interface {
	PublishToUser(userID string, event Event)
}
