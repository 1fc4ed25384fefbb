package projections

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
	"connect/internal/domain/profile"
)

// Dashboard section sizes.
const (
	DashboardEventLimit        = 5
	DashboardNotificationLimit = 10
	DashboardRecommendLimit    = 4
)

// DashboardClubStore defines the club store interface needed by the dashboard projection.
type DashboardClubStore interface {
	List(ctx context.Context) ([]club.Club, error)
	ListByMember(ctx context.Context, userID string) ([]club.Club, error)
}

// DashboardEventStore defines the event store interface needed by the dashboard projection.
type DashboardEventStore interface {
	ListUpcomingForMember(ctx context.Context, userID string, from time.Time, limit int) ([]event.Event, error)
}

// NotificationLister defines the notification store interface needed by read projections.
type NotificationLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error)
}

// DashboardDeps holds dependencies for the dashboard projection.
type DashboardDeps struct {
	ProfileStore interface {
		GetByID(ctx context.Context, id string) (profile.Profile, error)
	}
	ClubStore         DashboardClubStore
	EventStore        DashboardEventStore
	NotificationStore NotificationLister
	Now               func() time.Time
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Profile        profile.Profile
	JoinedClubs    []club.Club
	UpcomingEvents []event.Event
	Notifications  []notification.Notification
	UnreadCount    int
	Recommended    []club.Club
}

// QueryDashboard assembles a signed-in user's home view. Sections load concurrently.
// PRE: userID names an existing profile
// POST: Recommended holds trending clubs in the user's interests they have not joined
func QueryDashboard(ctx context.Context, userID string, deps DashboardDeps) (DashboardResult, error) {
	var res DashboardResult
	var all []club.Club

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := deps.ProfileStore.GetByID(gctx, userID)
		res.Profile = p
		return err
	})
	g.Go(func() error {
		joined, err := deps.ClubStore.ListByMember(gctx, userID)
		res.JoinedClubs = joined
		return err
	})
	g.Go(func() error {
		events, err := deps.EventStore.ListUpcomingForMember(gctx, userID, deps.Now(), DashboardEventLimit)
		res.UpcomingEvents = events
		return err
	})
	g.Go(func() error {
		ns, err := deps.NotificationStore.ListByUser(gctx, userID, DashboardNotificationLimit)
		res.Notifications = ns
		res.UnreadCount = notification.CountUnread(ns)
		return err
	})
	g.Go(func() error {
		var err error
		all, err = deps.ClubStore.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardResult{}, err
	}

	res.Recommended = recommend(all, res.Profile.Interests, res.JoinedClubs)
	return res, nil
}

func recommend(all []club.Club, interests []string, joined []club.Club) []club.Club {
	trending := club.Filter{Sort: club.SortTrending}.Apply(all)
	out := make([]club.Club, 0, DashboardRecommendLimit)
	for _, c := range trending {
		if len(out) == DashboardRecommendLimit {
			break
		}
		if !slices.Contains(interests, c.Category) {
			continue
		}
		if slices.ContainsFunc(joined, func(j club.Club) bool { return j.ID == c.ID }) {
			continue
		}
		out = append(out, c)
	}
	return out
}
