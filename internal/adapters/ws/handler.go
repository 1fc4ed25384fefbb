package ws

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

// TokenValidator resolves an access token to a user ID.
type TokenValidator interface {
	ValidateAccessToken(token string) (userID string, err error)
}

// Handler upgrades authenticated requests and registers them with the hub.
type Handler struct {
	hub       *Hub
	validator TokenValidator
	upgrader  websocket.Upgrader
}

// NewHandler creates a websocket Handler. An empty allowedOrigins accepts any origin.
func NewHandler(hub *Hub, validator TokenValidator, allowedOrigins []string) *Handler {
	return &Handler{
		hub:       hub,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeHTTP handles GET /ws?token=<access token>.
// Browsers cannot set headers on a websocket handshake, so the token travels in the query.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	userID, err := h.validator.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws_upgrade_failed", "user_id", userID, "error", err)
		return
	}

	c := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}
	if !h.hub.admit(c) {
		conn.Close()
		return
	}

	go c.WritePump()
	c.ReadPump()
}
