package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connect/internal/adapters/email"
	web "connect/internal/adapters/http"
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
	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
)

// startAPI serves the full API over a seeded in-memory database.
func startAPI(t *testing.T) *httptest.Server {
	t.Helper()
	db := storagetest.Open(t)
	s := &web.Stores{
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
	hub := ws.NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(web.NewMux(web.Options{
		Stores:        s,
		Collector:     perf.NewCollector(100),
		Sender:        email.NewNoopSender(),
		Hub:           hub,
		JWTSecret:     []byte("0123456789abcdef0123456789abcdef"),
		RatePerSecond: 1000,
		RateBurst:     1000,
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv
}

func signedIn(t *testing.T, srv *httptest.Server, name, mail string) (*RemoteAuth, *Remote) {
	t.Helper()
	ra := NewRemoteAuth(srv.URL, srv.Client())
	if _, err := ra.SignUp(context.Background(), mail, "secret123", name); err != nil {
		t.Fatalf("SignUp(%s): %v", mail, err)
	}
	return ra, NewRemote(srv.URL, srv.Client(), ra.Token)
}

func TestRemote_Listing(t *testing.T) {
	srv := startAPI(t)
	r := NewRemote(srv.URL, srv.Client(), nil)
	ctx := context.Background()

	tech, err := r.ListClubs(ctx, ClubFilter{Category: "Tech"})
	if err != nil {
		t.Fatalf("ListClubs: %v", err)
	}
	if len(tech) != 1 || tech[0].ID != "c3" {
		t.Errorf("Tech = %v, want [c3]", ids(tech))
	}

	run, _ := r.ListClubs(ctx, ClubFilter{Search: "run"})
	if len(run) != 1 || run[0].ID != "c2" {
		t.Errorf("search run = %v, want [c2]", ids(run))
	}

	trending, _ := r.ListClubs(ctx, ClubFilter{Sort: club.SortTrending})
	for i := 1; i < len(trending); i++ {
		if trending[i].MemberCount > trending[i-1].MemberCount {
			t.Fatalf("Trending not ordered at %d", i)
		}
	}

	c, err := r.GetClub(ctx, "c3")
	if err != nil || c.Name != "Byte Club" {
		t.Errorf("GetClub(c3) = %+v, %v", c, err)
	}
	events, err := r.ListEvents(ctx, "c3")
	if err != nil || len(events) != 2 {
		t.Errorf("ListEvents(c3) = %d, %v", len(events), err)
	}
	e, err := r.GetEvent(ctx, "e1")
	if err != nil || e.ClubID != "c1" {
		t.Errorf("GetEvent(e1) = %+v, %v", e, err)
	}
	posts, err := r.ListPosts(ctx, "c1")
	if err != nil || len(posts) != 1 {
		t.Errorf("ListPosts(c1) = %d, %v", len(posts), err)
	}
}

func TestRemote_NotFound(t *testing.T) {
	srv := startAPI(t)
	r := NewRemote(srv.URL, srv.Client(), nil)

	_, err := r.GetClub(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if StatusOf(err) != http.StatusNotFound {
		t.Errorf("StatusOf = %d", StatusOf(err))
	}
	if _, err := r.GetEvent(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEvent err = %v", err)
	}
}

func TestRemote_WritesNeedSession(t *testing.T) {
	srv := startAPI(t)
	r := NewRemote(srv.URL, srv.Client(), nil)

	_, err := r.JoinClub(context.Background(), "c1", "")
	if StatusOf(err) != http.StatusUnauthorized {
		t.Errorf("JoinClub signed out = %v, want 401", err)
	}
}

func TestRemote_ClubLifecycle(t *testing.T) {
	srv := startAPI(t)
	ctx := context.Background()
	_, owner := signedIn(t, srv, "Ava", "ava@x.com")
	_, guest := signedIn(t, srv, "Ben", "ben@x.com")

	c, err := owner.CreateClub(ctx, ClubInput{
		Name: "Night Owls", Description: "Late readers.", Category: "Books", Location: "Austin",
		Tags: []string{"Late"}, OwnerID: "ignored", FounderName: "ignored",
	})
	if err != nil {
		t.Fatalf("CreateClub: %v", err)
	}
	if c.MemberCount != 1 {
		t.Errorf("MemberCount = %d, want 1", c.MemberCount)
	}
	newest, _ := owner.ListClubs(ctx, ClubFilter{Sort: club.SortNew})
	if newest[0].ID != c.ID {
		t.Errorf("head of New = %s, want %s", newest[0].ID, c.ID)
	}

	joined, err := guest.JoinClub(ctx, c.ID, "")
	if err != nil {
		t.Fatalf("JoinClub: %v", err)
	}
	if joined.MemberCount != 2 {
		t.Errorf("after join = %d, want 2", joined.MemberCount)
	}
	again, _ := guest.JoinClub(ctx, c.ID, "")
	if again.MemberCount != 2 {
		t.Errorf("repeat join = %d, want 2", again.MemberCount)
	}

	ns, err := owner.ListNotifications(ctx, "")
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(ns) == 0 || ns[0].Type != notification.TypeClubJoin {
		t.Errorf("owner notifications = %+v, want CLUB_JOIN first", ns)
	}

	e, err := owner.CreateEvent(ctx, EventInput{
		ClubID: c.ID, Title: "Reading Night", Description: "Bring a book.",
		Date: time.Now().Add(48 * time.Hour), Location: "Library", Capacity: 1,
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	got, err := guest.RSVPEvent(ctx, e.ID, "", event.RSVPGoing)
	if err != nil {
		t.Fatalf("RSVPEvent: %v", err)
	}
	if got.Attendees != 1 {
		t.Errorf("Attendees = %d, want 1", got.Attendees)
	}
	_, err = owner.RSVPEvent(ctx, e.ID, "", event.RSVPGoing)
	if StatusOf(err) != http.StatusConflict {
		t.Errorf("over capacity = %v, want 409", err)
	}

	left, err := guest.LeaveClub(ctx, c.ID, "")
	if err != nil || left.MemberCount != 1 {
		t.Errorf("LeaveClub = %d, %v", left.MemberCount, err)
	}

	if err := guest.DeleteClub(ctx, c.ID); StatusOf(err) != http.StatusForbidden {
		t.Errorf("guest delete = %v, want 403", err)
	}
	if err := owner.DeleteClub(ctx, c.ID); err != nil {
		t.Fatalf("DeleteClub: %v", err)
	}
	if _, err := owner.GetClub(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete = %v, want ErrNotFound", err)
	}
}

func TestRemoteAuth_SessionLifecycle(t *testing.T) {
	srv := startAPI(t)
	ctx := context.Background()
	ra := NewRemoteAuth(srv.URL, srv.Client())

	s, err := ra.Session(ctx)
	if err != nil || s != nil {
		t.Fatalf("Session before sign-in = %v, %v", s, err)
	}

	up, err := ra.SignUp(ctx, "ava@x.com", "secret1", "Ava")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if up.User.Name != "Ava" || up.User.Email != "ava@x.com" || up.User.ID == "" {
		t.Errorf("SignUp user = %+v", up.User)
	}
	if !up.User.NeedsOnboarding() {
		t.Error("fresh account should need onboarding")
	}

	s, err = ra.Session(ctx)
	if err != nil || s == nil || s.User.ID != up.User.ID {
		t.Fatalf("Session = %+v, %v", s, err)
	}

	city := "Austin"
	interests := []string{"Tech", "Music", "Art"}
	p, err := ra.UpdateProfile(ctx, up.User.ID, ProfileUpdate{City: &city, Interests: &interests})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if p.City != "Austin" || len(p.Interests) != 3 {
		t.Errorf("updated profile = %+v", p)
	}
	got, err := ra.GetProfile(ctx, up.User.ID)
	if err != nil || got.City != "Austin" {
		t.Errorf("GetProfile = %+v, %v", got, err)
	}

	if err := ra.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if ra.Token() != "" {
		t.Error("token kept after sign-out")
	}

	if _, err := ra.SignIn(ctx, "ava@x.com", "wrong-password"); StatusOf(err) != http.StatusUnauthorized {
		t.Errorf("bad password = %v, want 401", err)
	}
	if _, err := ra.SignIn(ctx, "ava@x.com", "secret1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := ra.ResetPasswordForEmail(ctx, "nobody@x.com"); err != nil {
		t.Errorf("reset for unknown email should still succeed: %v", err)
	}
}

func TestRemoteAuth_SignUpValidation(t *testing.T) {
	srv := startAPI(t)
	ra := NewRemoteAuth(srv.URL, srv.Client())

	_, err := ra.SignUp(context.Background(), "ava@x.com", "123", "Ava")
	if StatusOf(err) != http.StatusBadRequest {
		t.Errorf("short password = %v, want 400", err)
	}
	if ra.Token() != "" {
		t.Error("failed sign-up must not hold a token")
	}
}

func waitEvent(t *testing.T, ch <-chan AuthEvent, kind string) AuthEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev.Kind == kind {
				return ev
			}
		case <-timeout:
			t.Fatalf("no %s event", kind)
			return AuthEvent{}
		}
	}
}

func TestRemoteAuth_Subscribe(t *testing.T) {
	srv := startAPI(t)
	ctx := context.Background()
	ra := NewRemoteAuth(srv.URL, srv.Client())

	events := make(chan AuthEvent, 16)
	sub, err := ra.Subscribe(ctx, func(ev AuthEvent) { events <- ev })
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Unsubscribe()

	s, err := ra.SignUp(ctx, "ava@x.com", "secret1", "Ava")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	in := waitEvent(t, events, AuthSignedIn)
	if in.Session == nil || in.Session.User.ID != s.User.ID {
		t.Errorf("signed_in payload = %+v", in)
	}

	city := "Austin"
	if _, err := ra.UpdateProfile(ctx, s.User.ID, ProfileUpdate{City: &city}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	upd := waitEvent(t, events, AuthProfileUpdated)
	if upd.Profile == nil || upd.Profile.City != "Austin" || upd.Profile.Email != "ava@x.com" {
		t.Errorf("profile_updated payload = %+v", upd.Profile)
	}

	// Another member joining Ava's club is pushed to her.
	owner := NewRemote(srv.URL, srv.Client(), ra.Token)
	c, err := owner.CreateClub(ctx, ClubInput{Name: "Night Owls", Category: "Books", Location: "Austin"})
	if err != nil {
		t.Fatalf("CreateClub: %v", err)
	}
	_, guest := signedIn(t, srv, "Ben", "ben@x.com")
	if _, err := guest.JoinClub(ctx, c.ID, ""); err != nil {
		t.Fatalf("JoinClub: %v", err)
	}
	note := waitEvent(t, events, AuthNotification)
	if note.Notification == nil || note.Notification.Type != notification.TypeClubJoin || note.Notification.LinkID != c.ID {
		t.Errorf("notification payload = %+v", note.Notification)
	}

	if err := ra.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	out := waitEvent(t, events, AuthSignedOut)
	if out.UserID != s.User.ID {
		t.Errorf("signed_out user = %q", out.UserID)
	}
}

func TestRemoteAuth_UnsubscribeStopsEvents(t *testing.T) {
	srv := startAPI(t)
	ctx := context.Background()
	ra := NewRemoteAuth(srv.URL, srv.Client())

	events := make(chan AuthEvent, 16)
	sub, _ := ra.Subscribe(ctx, func(ev AuthEvent) { events <- ev })
	sub.Unsubscribe()
	sub.Unsubscribe()

	if _, err := ra.SignUp(ctx, "ava@x.com", "secret1", "Ava"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	select {
	case ev := <-events:
		t.Errorf("got %s after Unsubscribe", ev.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWebsocketURL(t *testing.T) {
	tests := map[string]string{
		"http://localhost:8080":   "ws://localhost:8080/ws",
		"https://connect.example": "wss://connect.example/ws",
	}
	for in, want := range tests {
		if got := websocketURL(in); got != want {
			t.Errorf("websocketURL(%q) = %q, want %q", in, got, want)
		}
	}
}
