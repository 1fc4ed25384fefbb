package client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"connect/internal/adapters/ws"
	"connect/internal/domain/notification"
	"connect/internal/domain/profile"
)

// Auth event kinds.
const (
	AuthSignedIn       = "signed_in"
	AuthSignedOut      = "signed_out"
	AuthProfileUpdated = "profile_updated"
	AuthNotification   = "notification"
)

// HeartbeatInterval is how often a subscription pings the server.
const HeartbeatInterval = 30 * time.Second

const readyWait = 10 * time.Second

// ProfileUpdate is a partial profile edit; nil fields are left unchanged.
type ProfileUpdate = profile.Update

// Session is a signed-in user and the token that proves it.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      profile.Profile
}

// AuthEvent is one auth-state change.
// Session is set for AuthSignedIn, Profile for AuthProfileUpdated and
// Notification for AuthNotification.
type AuthEvent struct {
	Kind         string
	UserID       string
	Session      *Session
	Profile      *profile.Profile
	Notification *notification.Notification
}

// Subscription is a live Subscribe registration.
type Subscription interface {
	Unsubscribe()
}

// Auth is the identity and profile collaborator.
type Auth interface {
	SignUp(ctx context.Context, email, password, name string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context) error
	// Session returns the current session, or nil when signed out.
	Session(ctx context.Context) (*Session, error)
	Subscribe(ctx context.Context, fn func(AuthEvent)) (Subscription, error)
	ResetPasswordForEmail(ctx context.Context, email string) error
	GetProfile(ctx context.Context, id string) (profile.Profile, error)
	UpdateProfile(ctx context.Context, id string, u ProfileUpdate) (profile.Profile, error)
}

// RemoteAuth implements Auth against the Connect API. The access token lives
// in memory only. Subscribers hear about this client's own sign-in and
// sign-out directly and about everything else over the /ws stream.
type RemoteAuth struct {
	api       api
	wsURL     string
	dialer    *websocket.Dialer
	heartbeat time.Duration

	mu      sync.Mutex
	session *Session
	subs    map[int]func(AuthEvent)
	nextSub int
	conn    *websocket.Conn
}

// NewRemoteAuth returns an Auth for the API at baseURL.
func NewRemoteAuth(baseURL string, httpClient *http.Client) *RemoteAuth {
	ra := &RemoteAuth{
		dialer:    websocket.DefaultDialer,
		heartbeat: HeartbeatInterval,
		subs:      make(map[int]func(AuthEvent)),
	}
	ra.api = newAPI(baseURL, httpClient, ra.Token)
	ra.wsURL = websocketURL(ra.api.baseURL)
	return ra
}

func websocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://") + "/ws"
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://") + "/ws"
	}
	return baseURL + "/ws"
}

// Token returns the current access token or "".
func (ra *RemoteAuth) Token() string {
	ra.mu.Lock()
	defer ra.mu.Unlock()
	if ra.session == nil {
		return ""
	}
	return ra.session.Token
}

type sessionReply struct {
	Token     string
	ExpiresAt time.Time
	Profile   profile.Profile
}

func (s sessionReply) session() Session {
	return Session{Token: s.Token, ExpiresAt: s.ExpiresAt, User: s.Profile}
}

func (ra *RemoteAuth) SignUp(ctx context.Context, email, password, name string) (Session, error) {
	var out sessionReply
	body := struct{ Email, Password, Name string }{email, password, name}
	if err := ra.api.do(ctx, http.MethodPost, "/api/auth/signup", nil, body, &out); err != nil {
		return Session{}, err
	}
	return ra.signedIn(out.session()), nil
}

func (ra *RemoteAuth) SignIn(ctx context.Context, email, password string) (Session, error) {
	var out sessionReply
	body := struct{ Email, Password string }{email, password}
	if err := ra.api.do(ctx, http.MethodPost, "/api/auth/signin", nil, body, &out); err != nil {
		return Session{}, err
	}
	return ra.signedIn(out.session()), nil
}

func (ra *RemoteAuth) signedIn(s Session) Session {
	ra.mu.Lock()
	old := ra.conn
	ra.conn = nil
	ra.session = &s
	listening := len(ra.subs) > 0
	ra.mu.Unlock()

	if old != nil {
		old.Close()
	}
	if listening {
		ra.connect()
	}
	ra.emit(AuthEvent{Kind: AuthSignedIn, UserID: s.User.ID, Session: &s})
	return s
}

// SignOut revokes the token server-side and forgets it locally. The local
// sign-out happens even when the server call fails.
func (ra *RemoteAuth) SignOut(ctx context.Context) error {
	if ra.Token() == "" {
		return nil
	}
	err := ra.api.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil, nil)
	if StatusOf(err) == http.StatusUnauthorized {
		err = nil
	}
	ra.signedOut()
	return err
}

func (ra *RemoteAuth) signedOut() {
	ra.mu.Lock()
	if ra.session == nil {
		ra.mu.Unlock()
		return
	}
	userID := ra.session.User.ID
	ra.session = nil
	conn := ra.conn
	ra.conn = nil
	ra.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	ra.emit(AuthEvent{Kind: AuthSignedOut, UserID: userID})
}

// Session re-validates the held token. An expired or revoked token signs the
// client out and yields nil.
func (ra *RemoteAuth) Session(ctx context.Context) (*Session, error) {
	if ra.Token() == "" {
		return nil, nil
	}
	var out sessionReply
	err := ra.api.do(ctx, http.MethodGet, "/api/auth/session", nil, nil, &out)
	if StatusOf(err) == http.StatusUnauthorized {
		ra.signedOut()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s := out.session()
	ra.mu.Lock()
	if ra.session != nil {
		ra.session.User = s.User
	}
	ra.mu.Unlock()
	return &s, nil
}

func (ra *RemoteAuth) ResetPasswordForEmail(ctx context.Context, email string) error {
	return ra.api.do(ctx, http.MethodPost, "/api/auth/reset", nil, struct{ Email string }{email}, nil)
}

func (ra *RemoteAuth) GetProfile(ctx context.Context, id string) (profile.Profile, error) {
	var out profile.Profile
	err := ra.api.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (ra *RemoteAuth) UpdateProfile(ctx context.Context, id string, u ProfileUpdate) (profile.Profile, error) {
	var out profile.Profile
	if err := ra.api.do(ctx, http.MethodPatch, "/api/profiles/"+url.PathEscape(id), nil, u, &out); err != nil {
		return profile.Profile{}, err
	}
	ra.mu.Lock()
	if ra.session != nil && ra.session.User.ID == out.ID {
		ra.session.User = out
	}
	ra.mu.Unlock()
	return out, nil
}

type subscription struct {
	once sync.Once
	fn   func()
}

func (s *subscription) Unsubscribe() { s.once.Do(s.fn) }

// Subscribe registers fn for auth events until Unsubscribe. The first
// subscriber opens the websocket stream if a session exists; the last one to
// leave closes it. fn may be called from any goroutine.
func (ra *RemoteAuth) Subscribe(ctx context.Context, fn func(AuthEvent)) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ra.mu.Lock()
	id := ra.nextSub
	ra.nextSub++
	ra.subs[id] = fn
	start := ra.session != nil && ra.conn == nil
	ra.mu.Unlock()

	if start {
		ra.connect()
	}
	return &subscription{fn: func() {
		ra.mu.Lock()
		delete(ra.subs, id)
		var conn *websocket.Conn
		if len(ra.subs) == 0 {
			conn = ra.conn
			ra.conn = nil
		}
		ra.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
	}}, nil
}

func (ra *RemoteAuth) emit(ev AuthEvent) {
	ra.mu.Lock()
	fns := make([]func(AuthEvent), 0, len(ra.subs))
	for _, fn := range ra.subs {
		fns = append(fns, fn)
	}
	ra.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// connect dials the stream for the current token and waits for ready.
// Failures are logged; the subscription then only carries local events.
func (ra *RemoteAuth) connect() {
	token := ra.Token()
	if token == "" {
		return
	}
	conn, _, err := ra.dialer.Dial(ra.wsURL+"?token="+url.QueryEscape(token), nil)
	if err != nil {
		slog.Warn("auth_stream_dial_failed", "error", err)
		return
	}
	// The server registers the connection before it says ready.
	var hello frame
	conn.SetReadDeadline(time.Now().Add(readyWait))
	if err := conn.ReadJSON(&hello); err != nil || hello.Op != ws.OpReady {
		slog.Warn("auth_stream_not_ready", "op", hello.Op, "error", err)
		conn.Close()
		return
	}
	conn.SetReadDeadline(time.Time{})

	ra.mu.Lock()
	if ra.conn != nil || ra.session == nil || ra.session.Token != token || len(ra.subs) == 0 {
		ra.mu.Unlock()
		conn.Close()
		return
	}
	ra.conn = conn
	ra.mu.Unlock()

	done := make(chan struct{})
	go ra.heartbeatLoop(conn, done)
	go ra.readLoop(conn, done)
}

func (ra *RemoteAuth) heartbeatLoop(conn *websocket.Conn, done <-chan struct{}) {
	t := time.NewTicker(ra.heartbeat)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := conn.WriteJSON(ws.Event{Op: ws.OpHeartbeat}); err != nil {
				return
			}
		}
	}
}

// frame mirrors ws.Event with the payload left raw.
type frame struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"d"`
	Seq  int64           `json:"seq"`
}

func (ra *RemoteAuth) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	defer conn.Close()
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if !errors.Is(err, net.ErrClosed) {
				slog.Debug("auth_stream_closed", "error", err)
			}
			return
		}
		ra.handleFrame(f)
	}
}

func (ra *RemoteAuth) handleFrame(f frame) {
	switch f.Op {
	case ws.OpSignedOut:
		// A sign-out anywhere ends this session too.
		ra.signedOut()
	case ws.OpProfileUpdated:
		var d struct {
			ID        string   `json:"id"`
			Name      string   `json:"name"`
			Avatar    string   `json:"avatar"`
			City      string   `json:"city"`
			Interests []string `json:"interests"`
		}
		if err := json.Unmarshal(f.Data, &d); err != nil {
			slog.Debug("auth_stream_bad_frame", "op", f.Op, "error", err)
			return
		}
		ra.mu.Lock()
		var p profile.Profile
		if ra.session != nil && ra.session.User.ID == d.ID {
			p = ra.session.User
		}
		p.ID, p.Name, p.Avatar, p.City, p.Interests = d.ID, d.Name, d.Avatar, d.City, d.Interests
		if ra.session != nil && ra.session.User.ID == d.ID {
			ra.session.User = p
		}
		ra.mu.Unlock()
		ra.emit(AuthEvent{Kind: AuthProfileUpdated, UserID: d.ID, Profile: &p})
	case ws.OpNotification:
		var d struct {
			ID      string `json:"id"`
			Type    string `json:"type"`
			Message string `json:"message"`
			LinkID  string `json:"link_id"`
			View    string `json:"view"`
		}
		if err := json.Unmarshal(f.Data, &d); err != nil {
			slog.Debug("auth_stream_bad_frame", "op", f.Op, "error", err)
			return
		}
		userID := ""
		ra.mu.Lock()
		if ra.session != nil {
			userID = ra.session.User.ID
		}
		ra.mu.Unlock()
		n := notification.Notification{
			ID: d.ID, UserID: userID, Type: d.Type, Message: d.Message,
			LinkID: d.LinkID, View: d.View, CreatedAt: time.Now(),
		}
		ra.emit(AuthEvent{Kind: AuthNotification, UserID: userID, Notification: &n})
	}
	// ready, heartbeat_ack and signed_in need no action: this client already
	// holds its own session.
}

var _ Auth = (*RemoteAuth)(nil)
