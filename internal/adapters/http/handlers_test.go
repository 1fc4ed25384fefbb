package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"connect/internal/adapters/email"
	"connect/internal/adapters/genai"
	"connect/internal/adapters/http/perf"
	accountStore "connect/internal/adapters/storage/account"
	clubStore "connect/internal/adapters/storage/club"
	eventStore "connect/internal/adapters/storage/event"
	notificationStore "connect/internal/adapters/storage/notification"
	postStore "connect/internal/adapters/storage/post"
	profileStore "connect/internal/adapters/storage/profile"
	"connect/internal/adapters/storage/storagetest"
	"connect/internal/adapters/ws"
	"connect/internal/application/orchestrators"
	"connect/internal/application/projections"
	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
	"connect/internal/domain/profile"
)

var testJWTSecret = []byte("0123456789abcdef0123456789abcdef")

type testEnv struct {
	handler http.Handler
	sender  *email.NoopSender
}

// newTestEnv builds the full API over a migrated in-memory database seeded
// with the sample clubs.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := storagetest.Open(t)
	s := &Stores{
		AccountStore:      accountStore.NewSQLiteStore(db),
		ProfileStore:      profileStore.NewSQLiteStore(db),
		ClubStore:         clubStore.NewSQLiteStore(db),
		EventStore:        eventStore.NewSQLiteStore(db),
		PostStore:         postStore.NewSQLiteStore(db),
		NotificationStore: notificationStore.NewSQLiteStore(db),
	}
	err := orchestrators.ExecuteSeedSampleData(context.Background(), orchestrators.SeedSampleDataDeps{
		AccountStore: s.AccountStore,
		ProfileStore: s.ProfileStore,
		ClubStore:    s.ClubStore,
		EventStore:   s.EventStore,
		PostStore:    s.PostStore,
		Now:          time.Now,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := ws.NewHub()
	go h.Run(ctx)

	sender := email.NewNoopSender()
	return &testEnv{
		handler: NewMux(Options{
			Stores:        s,
			Collector:     perf.NewCollector(100),
			Sender:        sender,
			Hub:           h,
			JWTSecret:     testJWTSecret,
			RatePerSecond: 1000,
			RateBurst:     1000,
			ExposePerf:    true,
		}),
		sender: sender,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, r)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v (body %q)", v, err, rr.Body.String())
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body %q)", rr.Code, want, rr.Body.String())
	}
}

type user struct {
	token string
	id    string
}

func (e *testEnv) signUp(t *testing.T, name, mail string) user {
	t.Helper()
	rr := e.do(t, "POST", "/api/auth/signup", "", map[string]string{
		"Email": mail, "Password": "secret123", "Name": name,
	})
	expectStatus(t, rr, http.StatusCreated)
	res := decode[sessionResponse](t, rr)
	return user{token: res.Token, id: res.Profile.ID}
}

func (e *testEnv) createClub(t *testing.T, owner user, name string) club.Club {
	t.Helper()
	rr := e.do(t, "POST", "/api/clubs", owner.token, map[string]any{
		"Name": name, "Category": "Tech", "Location": "Austin", "Tags": []string{"Go"},
	})
	expectStatus(t, rr, http.StatusCreated)
	return decode[club.Club](t, rr)
}

func TestAuth_SignUpSignInSignOut(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/auth/signup", "", map[string]string{
		"Email": "Ava@X.com", "Password": "secret123", "Name": "Ava",
	})
	expectStatus(t, rr, http.StatusCreated)
	created := decode[sessionResponse](t, rr)
	if created.Token == "" || created.Profile.Name != "Ava" || created.Profile.Email != "ava@x.com" {
		t.Fatalf("signup = %+v", created)
	}
	if !created.Profile.NeedsOnboarding() {
		t.Error("a new profile should need onboarding")
	}

	rr = env.do(t, "POST", "/api/auth/signup", "", map[string]string{
		"Email": "ava@x.com", "Password": "secret123", "Name": "Ava",
	})
	expectStatus(t, rr, http.StatusConflict)

	rr = env.do(t, "POST", "/api/auth/signin", "", map[string]string{"Email": "ava@x.com", "Password": "wrong-pass"})
	expectStatus(t, rr, http.StatusUnauthorized)

	rr = env.do(t, "POST", "/api/auth/signin", "", map[string]string{"Email": "ava@x.com", "Password": "secret123"})
	expectStatus(t, rr, http.StatusOK)
	signedIn := decode[sessionResponse](t, rr)

	rr = env.do(t, "GET", "/api/auth/session", signedIn.Token, nil)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[sessionResponse](t, rr); got.Profile.ID != created.Profile.ID {
		t.Errorf("session profile = %q, want %q", got.Profile.ID, created.Profile.ID)
	}

	rr = env.do(t, "POST", "/api/auth/signout", signedIn.Token, nil)
	expectStatus(t, rr, http.StatusNoContent)
	rr = env.do(t, "GET", "/api/auth/session", signedIn.Token, nil)
	expectStatus(t, rr, http.StatusUnauthorized)

	// The sign-up token is a separate session and survives.
	rr = env.do(t, "GET", "/api/auth/session", created.Token, nil)
	expectStatus(t, rr, http.StatusOK)
}

func TestAuth_RejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"short password", map[string]string{"Email": "a@x.com", "Password": "123", "Name": "A"}, http.StatusBadRequest},
		{"bad email", map[string]string{"Email": "nope", "Password": "secret123", "Name": "A"}, http.StatusBadRequest},
		{"unknown field", map[string]string{"Email": "a@x.com", "Password": "secret123", "Name": "A", "Role": "admin"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, "POST", "/api/auth/signup", "", tt.body)
			expectStatus(t, rr, tt.want)
			if body := decode[errorBody](t, rr); body.Error == "" {
				t.Error("error body is empty")
			}
		})
	}
}

func TestAuth_LockoutAfterFailedSignIns(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "Ava", "ava@x.com")

	for i := 0; i < 5; i++ {
		rr := env.do(t, "POST", "/api/auth/signin", "", map[string]string{"Email": "ava@x.com", "Password": "wrong-pass"})
		expectStatus(t, rr, http.StatusUnauthorized)
	}
	rr := env.do(t, "POST", "/api/auth/signin", "", map[string]string{"Email": "ava@x.com", "Password": "secret123"})
	expectStatus(t, rr, http.StatusLocked)
}

func TestAuth_PasswordReset(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "Ava", "ava@x.com")

	rr := env.do(t, "POST", "/api/auth/reset", "", map[string]string{"Email": "nobody@x.com"})
	expectStatus(t, rr, http.StatusAccepted)
	if n := len(env.sender.Sent()); n != 0 {
		t.Fatalf("sent %d mails for an unknown address", n)
	}

	rr = env.do(t, "POST", "/api/auth/reset", "", map[string]string{"Email": "ava@x.com"})
	expectStatus(t, rr, http.StatusAccepted)
	sent := env.sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(sent))
	}
	_, after, ok := strings.Cut(sent[0].Text, "token=")
	if !ok || len(after) < 64 {
		t.Fatalf("no token in mail: %q", sent[0].Text)
	}
	token := after[:64]

	confirm := map[string]string{"Token": token, "NewPassword": "brand-new-pass"}
	rr = env.do(t, "POST", "/api/auth/reset/confirm", "", confirm)
	expectStatus(t, rr, http.StatusNoContent)

	rr = env.do(t, "POST", "/api/auth/reset/confirm", "", confirm)
	expectStatus(t, rr, http.StatusBadRequest)

	rr = env.do(t, "POST", "/api/auth/signin", "", map[string]string{"Email": "ava@x.com", "Password": "brand-new-pass"})
	expectStatus(t, rr, http.StatusOK)
}

func TestProfiles_Update(t *testing.T) {
	env := newTestEnv(t)
	ava := env.signUp(t, "Ava", "ava@x.com")
	ben := env.signUp(t, "Ben", "ben@x.com")

	rr := env.do(t, "PATCH", "/api/profiles/"+ava.id, ava.token, map[string]any{
		"Interests": []string{"Tech", "Music"},
	})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = env.do(t, "PATCH", "/api/profiles/"+ava.id, ava.token, map[string]any{
		"City": "Austin", "Interests": []string{"Tech", "Music", "Art"},
	})
	expectStatus(t, rr, http.StatusOK)
	p := decode[profile.Profile](t, rr)
	if p.City != "Austin" || len(p.Interests) != 3 || p.NeedsOnboarding() {
		t.Errorf("profile = %+v", p)
	}

	rr = env.do(t, "PATCH", "/api/profiles/"+ava.id, ben.token, map[string]any{"City": "Paris"})
	expectStatus(t, rr, http.StatusForbidden)

	rr = env.do(t, "GET", "/api/profiles/"+ava.id, ben.token, nil)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[profile.Profile](t, rr); got.Email != "" || got.City != "Austin" {
		t.Errorf("other user's view = %+v, email should be hidden", got)
	}
}

func TestClubs_ListFilters(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/clubs?sort=Trending", "", nil)
	expectStatus(t, rr, http.StatusOK)
	clubs := decode[[]club.Club](t, rr)
	if len(clubs) != 8 {
		t.Fatalf("clubs = %d, want 8", len(clubs))
	}
	for i := 1; i < len(clubs); i++ {
		if clubs[i].MemberCount > clubs[i-1].MemberCount {
			t.Fatalf("trending order broken at %d: %d > %d", i, clubs[i].MemberCount, clubs[i-1].MemberCount)
		}
	}

	rr = env.do(t, "GET", "/api/clubs?q=run", "", nil)
	found := false
	for _, c := range decode[[]club.Club](t, rr) {
		if c.ID == "c2" {
			found = true
		}
	}
	if !found {
		t.Error(`search "run" should match the club tagged Running`)
	}

	rr = env.do(t, "GET", "/api/clubs?category=Tech&location=All", "", nil)
	tech := decode[[]club.Club](t, rr)
	if len(tech) != 1 || tech[0].ID != "c3" {
		t.Errorf("Tech clubs = %+v", tech)
	}
}

func TestClubs_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ava := env.signUp(t, "Ava", "ava@x.com")
	ben := env.signUp(t, "Ben", "ben@x.com")

	c := env.createClub(t, ava, "Gophers")
	if c.MemberCount != 1 || c.OwnerID != ava.id || c.Description != genai.NoKeyClubMission {
		t.Fatalf("created = %+v", c)
	}

	rr := env.do(t, "GET", "/api/clubs?sort=New", "", nil)
	if head := decode[[]club.Club](t, rr)[0]; head.ID != c.ID {
		t.Errorf("newest club = %s, want %s", head.ID, c.ID)
	}

	for i := 0; i < 2; i++ {
		rr = env.do(t, "POST", "/api/clubs/"+c.ID+"/join", ben.token, nil)
		expectStatus(t, rr, http.StatusOK)
		if got := decode[club.Club](t, rr).MemberCount; got != 2 {
			t.Errorf("join %d: MemberCount = %d, want 2", i, got)
		}
	}

	rr = env.do(t, "GET", "/api/notifications", ava.token, nil)
	res := decode[projections.NotificationsResult](t, rr)
	if res.Unread != 1 || res.Notifications[0].Type != notification.TypeClubJoin {
		t.Errorf("owner notifications = %+v", res)
	}

	rr = env.do(t, "GET", "/api/clubs/"+c.ID, ben.token, nil)
	detail := decode[projections.ClubDetailResult](t, rr)
	if !detail.IsMember || detail.IsOwner {
		t.Errorf("detail for Ben = member %v owner %v", detail.IsMember, detail.IsOwner)
	}

	rr = env.do(t, "POST", "/api/clubs/"+c.ID+"/leave", ava.token, nil)
	expectStatus(t, rr, http.StatusConflict)

	rr = env.do(t, "POST", "/api/clubs/"+c.ID+"/leave", ben.token, nil)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[club.Club](t, rr).MemberCount; got != 1 {
		t.Errorf("after leave MemberCount = %d, want 1", got)
	}

	rr = env.do(t, "DELETE", "/api/clubs/"+c.ID, ben.token, nil)
	expectStatus(t, rr, http.StatusForbidden)
	rr = env.do(t, "DELETE", "/api/clubs/"+c.ID, ava.token, nil)
	expectStatus(t, rr, http.StatusNoContent)
	rr = env.do(t, "GET", "/api/clubs/"+c.ID, "", nil)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestEvents_CreateAndRSVP(t *testing.T) {
	env := newTestEnv(t)
	ava := env.signUp(t, "Ava", "ava@x.com")
	ben := env.signUp(t, "Ben", "ben@x.com")
	cal := env.signUp(t, "Cal", "cal@x.com")
	c := env.createClub(t, ava, "Gophers")

	body := map[string]any{
		"Title": "Go Night", "Date": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"Location": "Austin", "Capacity": 1, "Description": "Bring a laptop.",
	}
	rr := env.do(t, "POST", "/api/clubs/"+c.ID+"/events", ben.token, body)
	expectStatus(t, rr, http.StatusForbidden)

	rr = env.do(t, "POST", "/api/clubs/"+c.ID+"/events", ava.token, body)
	expectStatus(t, rr, http.StatusCreated)
	e := decode[event.Event](t, rr)

	rr = env.do(t, "POST", "/api/events/"+e.ID+"/rsvp", ben.token, map[string]string{"Status": event.RSVPGoing})
	expectStatus(t, rr, http.StatusOK)
	if got := decode[event.Event](t, rr); got.Attendees != 1 || got.RSVPs[ben.id] != event.RSVPGoing {
		t.Errorf("after RSVP = %+v", got)
	}

	rr = env.do(t, "POST", "/api/events/"+e.ID+"/rsvp", ben.token, map[string]string{"Status": event.RSVPGoing})
	expectStatus(t, rr, http.StatusOK)

	rr = env.do(t, "POST", "/api/events/"+e.ID+"/rsvp", cal.token, map[string]string{"Status": event.RSVPGoing})
	expectStatus(t, rr, http.StatusConflict)

	rr = env.do(t, "POST", "/api/events/"+e.ID+"/rsvp", cal.token, map[string]string{"Status": "dancing"})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = env.do(t, "GET", "/api/events/"+e.ID, ben.token, nil)
	expectStatus(t, rr, http.StatusOK)
	detail := decode[projections.EventDetailResult](t, rr)
	if detail.MyStatus != event.RSVPGoing || !detail.IsFull || detail.Club.ID != c.ID {
		t.Errorf("detail = %+v", detail)
	}

	rr = env.do(t, "GET", "/api/clubs/"+c.ID+"/events", "", nil)
	if events := decode[[]event.Event](t, rr); len(events) != 1 {
		t.Errorf("club events = %d, want 1", len(events))
	}
}

func TestPosts_MembersOnlyAndSafeMarkdown(t *testing.T) {
	env := newTestEnv(t)
	ava := env.signUp(t, "Ava", "ava@x.com")
	ben := env.signUp(t, "Ben", "ben@x.com")
	c := env.createClub(t, ava, "Gophers")

	content := map[string]string{"Content": "**hello** <script>alert(1)</script>"}
	rr := env.do(t, "POST", "/api/clubs/"+c.ID+"/posts", ben.token, content)
	expectStatus(t, rr, http.StatusForbidden)

	rr = env.do(t, "POST", "/api/clubs/"+c.ID+"/posts", ava.token, content)
	expectStatus(t, rr, http.StatusCreated)

	rr = env.do(t, "GET", "/api/clubs/"+c.ID+"/posts", "", nil)
	expectStatus(t, rr, http.StatusOK)
	posts := decode[[]projections.PostView](t, rr)
	if len(posts) != 1 {
		t.Fatalf("posts = %d, want 1", len(posts))
	}
	if !strings.Contains(posts[0].HTML, "<strong>hello</strong>") || strings.Contains(posts[0].HTML, "<script>") {
		t.Errorf("HTML = %q", posts[0].HTML)
	}
}

func TestNotifications_MarkRead(t *testing.T) {
	env := newTestEnv(t)
	ava := env.signUp(t, "Ava", "ava@x.com")
	ben := env.signUp(t, "Ben", "ben@x.com")
	c := env.createClub(t, ava, "Gophers")
	env.do(t, "POST", "/api/clubs/"+c.ID+"/join", ben.token, nil)

	rr := env.do(t, "GET", "/api/dashboard", ava.token, nil)
	expectStatus(t, rr, http.StatusOK)
	dash := decode[projections.DashboardResult](t, rr)
	if dash.UnreadCount != 1 || len(dash.JoinedClubs) != 1 {
		t.Fatalf("dashboard = unread %d joined %d", dash.UnreadCount, len(dash.JoinedClubs))
	}
	id := dash.Notifications[0].ID

	rr = env.do(t, "POST", "/api/notifications/"+id+"/read", ben.token, nil)
	expectStatus(t, rr, http.StatusForbidden)

	rr = env.do(t, "POST", "/api/notifications/"+id+"/read", ava.token, nil)
	expectStatus(t, rr, http.StatusOK)
	if !decode[notification.Notification](t, rr).Read {
		t.Error("notification not marked read")
	}

	rr = env.do(t, "GET", "/api/notifications", ava.token, nil)
	if res := decode[projections.NotificationsResult](t, rr); res.Unread != 0 {
		t.Errorf("Unread = %d, want 0", res.Unread)
	}
}

func TestCopy_StaticFallback(t *testing.T) {
	env := newTestEnv(t)
	ava := env.signUp(t, "Ava", "ava@x.com")

	rr := env.do(t, "POST", "/api/copy/event", ava.token, map[string]any{"Title": "Go Night", "Tags": []string{"go"}})
	expectStatus(t, rr, http.StatusOK)
	if got := decode[copyResponse](t, rr).Text; got != genai.NoKeyEventDescription {
		t.Errorf("event copy = %q", got)
	}

	rr = env.do(t, "POST", "/api/copy/club", ava.token, map[string]any{"Name": "Gophers", "Category": "Tech"})
	expectStatus(t, rr, http.StatusOK)
	if got := decode[copyResponse](t, rr).Text; got != genai.NoKeyClubMission {
		t.Errorf("club copy = %q", got)
	}

	rr = env.do(t, "POST", "/api/copy/club", "", map[string]any{"Name": "Gophers", "Category": "Tech"})
	expectStatus(t, rr, http.StatusUnauthorized)
}

func TestClubInviteQR(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/clubs/c1/invite.png", "", nil)
	expectStatus(t, rr, http.StatusOK)
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("body is not a PNG")
	}

	rr = env.do(t, "GET", "/api/clubs/missing/invite.png", "", nil)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	routes := []struct{ method, path string }{
		{"GET", "/api/dashboard"},
		{"GET", "/api/notifications"},
		{"POST", "/api/clubs"},
		{"POST", "/api/clubs/c1/join"},
		{"POST", "/api/events/e1/rsvp"},
		{"GET", "/api/perf"},
	}
	for _, rt := range routes {
		rr := env.do(t, rt.method, rt.path, "", map[string]string{})
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", rt.method, rt.path, rr.Code)
		}
	}
	rr := env.do(t, "GET", "/api/dashboard", "not-a-token", nil)
	expectStatus(t, rr, http.StatusUnauthorized)
}

func TestPerfSnapshotRecordsRequests(t *testing.T) {
	env := newTestEnv(t)
	ava := env.signUp(t, "Ava", "ava@x.com")
	env.do(t, "GET", "/api/clubs", "", nil)

	rr := env.do(t, "GET", "/api/perf", ava.token, nil)
	expectStatus(t, rr, http.StatusOK)
	snap := decode[perf.Snapshot](t, rr)
	if snap.Requests < 2 {
		t.Errorf("Requests = %d, want at least 2", snap.Requests)
	}
}

func TestWebsocket_ProfileUpdatePushed(t *testing.T) {
	env := newTestEnv(t)
	ava := env.signUp(t, "Ava", "ava@x.com")
	srv := httptest.NewServer(env.handler)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + ava.token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	read := func() ws.Event {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev ws.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read: %v", err)
		}
		return ev
	}
	if ev := read(); ev.Op != ws.OpReady {
		t.Fatalf("first op = %q, want ready", ev.Op)
	}

	rr := env.do(t, "PATCH", "/api/profiles/"+ava.id, ava.token, map[string]any{"City": "Austin"})
	expectStatus(t, rr, http.StatusOK)
	if ev := read(); ev.Op != ws.OpProfileUpdated {
		t.Errorf("op = %q, want profile_updated", ev.Op)
	}

	rr = env.do(t, "POST", "/api/auth/signout", ava.token, nil)
	expectStatus(t, rr, http.StatusNoContent)
	if ev := read(); ev.Op != ws.OpSignedOut {
		t.Errorf("op = %q, want signed_out", ev.Op)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{orchestrators.ErrInvalidCredentials, http.StatusUnauthorized},
		{orchestrators.ErrAccountLocked, http.StatusLocked},
		{orchestrators.ErrEmailAlreadyExists, http.StatusConflict},
		{event.ErrEventFull, http.StatusConflict},
		{club.ErrNotOwner, http.StatusForbidden},
		{club.ErrNotMember, http.StatusForbidden},
		{club.ErrInvalidCategory, http.StatusBadRequest},
		{profile.ErrNotEnoughInterests, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
