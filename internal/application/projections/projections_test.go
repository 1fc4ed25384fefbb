package projections

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"connect/internal/adapters/storage"
	clubStore "connect/internal/adapters/storage/club"
	eventStore "connect/internal/adapters/storage/event"
	notificationStore "connect/internal/adapters/storage/notification"
	postStore "connect/internal/adapters/storage/post"
	profileStore "connect/internal/adapters/storage/profile"
	"connect/internal/adapters/storage/storagetest"
	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
	"connect/internal/domain/post"
	"connect/internal/domain/profile"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	clubs         *clubStore.SQLiteStore
	events        *eventStore.SQLiteStore
	posts         *postStore.SQLiteStore
	profiles      *profileStore.SQLiteStore
	notifications *notificationStore.SQLiteStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := storagetest.Open(t)
	f := fixture{
		clubs:         clubStore.NewSQLiteStore(db),
		events:        eventStore.NewSQLiteStore(db),
		posts:         postStore.NewSQLiteStore(db),
		profiles:      profileStore.NewSQLiteStore(db),
		notifications: notificationStore.NewSQLiteStore(db),
	}
	ctx := context.Background()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(f.profiles.Save(ctx, profile.Profile{ID: "u-ava", Name: "Ava", Email: "ava@x.com", City: "Austin",
		Interests: []string{"Tech", "Running"}, CreatedAt: now}))

	for _, c := range []club.Club{
		{ID: "c1", Name: "Byte Club", Category: "Tech", Location: "Austin", MemberCount: 40, Tags: []string{"Coding"}},
		{ID: "c2", Name: "Trail Blazers", Category: "Running", Location: "Denver", MemberCount: 120, Tags: []string{"Running"}},
		{ID: "c3", Name: "Night Owls", Category: "Tech", Location: "Austin", MemberCount: 85},
		{ID: "c4", Name: "Page Turners", Category: "Books", Location: "Austin", MemberCount: 300},
	} {
		c.Visibility = club.VisibilityPublic
		c.OwnerID = "u-owner"
		c.CreatedAt = now
		must(f.clubs.Save(ctx, c))
	}
	_, err := f.clubs.AddMember(ctx, "c1", "u-ava", now)
	must(err)

	must(f.events.Save(ctx, event.Event{ID: "e1", ClubID: "c1", Title: "Hack Night", Location: "HQ", Date: now.Add(48 * time.Hour), Capacity: 2, CreatedAt: now}))
	must(f.events.Save(ctx, event.Event{ID: "e0", ClubID: "c1", Title: "Last Week", Location: "HQ", Date: now.Add(-7 * 24 * time.Hour), CreatedAt: now}))
	must(f.events.Save(ctx, event.Event{ID: "e2", ClubID: "c2", Title: "Trail Run", Location: "Park", Date: now.Add(24 * time.Hour), CreatedAt: now}))
	must(f.events.SaveRSVP(ctx, "e1", "u-ava", event.RSVPGoing, now))
	must(f.events.SaveRSVP(ctx, "e1", "u-ben", event.RSVPMaybe, now))

	must(f.posts.Save(ctx, post.Post{ID: "p1", ClubID: "c1", Author: post.Author{ID: "u-ava", Name: "Ava"},
		Content: "Hello **world**<script>alert(1)</script>", CreatedAt: now}))

	must(f.notifications.SaveBatch(ctx, []notification.Notification{
		{ID: "n1", UserID: "u-ava", Type: notification.TypeNewPost, Message: "one", CreatedAt: now.Add(-time.Hour)},
		{ID: "n2", UserID: "u-ava", Type: notification.TypeClubJoin, Message: "two", Read: true, CreatedAt: now},
		{ID: "n3", UserID: "u-ben", Type: notification.TypeClubJoin, Message: "not mine", CreatedAt: now},
	}))
	return f
}

func ids(cs []club.Club) string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return strings.Join(out, ",")
}

func TestQueryListClubs(t *testing.T) {
	f := newFixture(t)
	deps := ListClubsDeps{ClubStore: f.clubs}
	ctx := context.Background()

	tests := []struct {
		name   string
		filter club.Filter
		want   string
	}{
		{"trending", club.Filter{Sort: club.SortTrending}, "c4,c2,c3,c1"},
		{"category and location", club.Filter{Category: "Tech", Location: "Austin", Sort: club.SortTrending}, "c3,c1"},
		{"search tag", club.Filter{Search: "run"}, "c2"},
		{"all sentinel", club.Filter{Category: club.All, Location: club.All, Sort: club.SortNew}, "c4,c3,c2,c1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QueryListClubs(ctx, tt.filter, deps)
			if err != nil {
				t.Fatal(err)
			}
			if ids(got) != tt.want {
				t.Errorf("got %s, want %s", ids(got), tt.want)
			}
		})
	}
}

func TestQueryClubDetail(t *testing.T) {
	f := newFixture(t)
	deps := ClubDetailDeps{ClubStore: f.clubs, EventStore: f.events, PostStore: f.posts}

	res, err := QueryClubDetail(context.Background(), ClubDetailQuery{ClubID: "c1", ViewerID: "u-ava"}, deps)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsMember || res.IsOwner {
		t.Errorf("member=%v owner=%v", res.IsMember, res.IsOwner)
	}
	if len(res.Events) != 2 || res.Events[0].ID != "e0" {
		t.Errorf("events = %+v", res.Events)
	}
	if len(res.Posts) != 1 {
		t.Fatalf("posts = %d", len(res.Posts))
	}
	html := res.Posts[0].HTML
	if !strings.Contains(html, "<strong>world</strong>") || strings.Contains(html, "<script>") {
		t.Errorf("rendered = %s", html)
	}

	anon, err := QueryClubDetail(context.Background(), ClubDetailQuery{ClubID: "c1"}, deps)
	if err != nil || anon.IsMember {
		t.Errorf("anonymous: member=%v err=%v", anon.IsMember, err)
	}

	if _, err := QueryClubDetail(context.Background(), ClubDetailQuery{ClubID: "missing"}, deps); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestQueryEventDetail(t *testing.T) {
	f := newFixture(t)
	deps := EventDetailDeps{EventStore: f.events, ClubStore: f.clubs}

	res, err := QueryEventDetail(context.Background(), "e1", "u-ava", deps)
	if err != nil {
		t.Fatal(err)
	}
	if res.Club.ID != "c1" || res.MyStatus != event.RSVPGoing {
		t.Errorf("club=%s status=%s", res.Club.ID, res.MyStatus)
	}
	if res.Event.Attendees != 1 || res.Maybe != 1 || res.IsFull {
		t.Errorf("attendees=%d maybe=%d full=%v", res.Event.Attendees, res.Maybe, res.IsFull)
	}
}

func TestQueryDashboard(t *testing.T) {
	f := newFixture(t)
	res, err := QueryDashboard(context.Background(), "u-ava", DashboardDeps{
		ProfileStore:      f.profiles,
		ClubStore:         f.clubs,
		EventStore:        f.events,
		NotificationStore: f.notifications,
		Now:               func() time.Time { return now },
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Profile.Name != "Ava" {
		t.Errorf("profile = %+v", res.Profile)
	}
	if ids(res.JoinedClubs) != "c1" {
		t.Errorf("joined = %s", ids(res.JoinedClubs))
	}
	if len(res.UpcomingEvents) != 1 || res.UpcomingEvents[0].ID != "e1" {
		t.Errorf("upcoming = %+v", res.UpcomingEvents)
	}
	if len(res.Notifications) != 2 || res.UnreadCount != 1 {
		t.Errorf("notifications = %d unread = %d", len(res.Notifications), res.UnreadCount)
	}
	// Tech and Running interests, c1 already joined, Books excluded.
	if ids(res.Recommended) != "c2,c3" {
		t.Errorf("recommended = %s", ids(res.Recommended))
	}
}

func TestQueryNotifications(t *testing.T) {
	f := newFixture(t)
	res, err := QueryNotifications(context.Background(), "u-ava", 10, f.notifications)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Notifications) != 2 || res.Notifications[0].ID != "n2" || res.Unread != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestRenderMarkdown(t *testing.T) {
	got := RenderMarkdown("line one\nline two\n\n- item")
	for _, want := range []string{"<br>", "<li>item</li>"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderMarkdown missing %q in %s", want, got)
		}
	}
}
