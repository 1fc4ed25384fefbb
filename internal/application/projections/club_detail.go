package projections

import (
	"context"

	"golang.org/x/sync/errgroup"

	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/post"
)

// DefaultPostLimit caps the posts shown on a club page.
const DefaultPostLimit = 50

// ClubDetailClubStore defines the club store interface needed by the club detail projection.
type ClubDetailClubStore interface {
	GetByID(ctx context.Context, id string) (club.Club, error)
	IsMember(ctx context.Context, clubID, userID string) (bool, error)
}

// EventLister defines the event store interface needed to list a club's events.
type EventLister interface {
	ListByClub(ctx context.Context, clubID string) ([]event.Event, error)
}

// PostLister defines the post store interface needed to list a club's posts.
type PostLister interface {
	ListByClub(ctx context.Context, clubID string, limit int) ([]post.Post, error)
}

// ClubDetailQuery carries input for the club detail projection.
type ClubDetailQuery struct {
	ClubID   string
	ViewerID string // empty for anonymous viewers
}

// ClubDetailDeps holds dependencies for the club detail projection.
type ClubDetailDeps struct {
	ClubStore  ClubDetailClubStore
	EventStore EventLister
	PostStore  PostLister
}

// PostView is a post with its Markdown rendered.
type PostView struct {
	post.Post
	HTML string
}

// ClubDetailResult carries the output of the club detail projection.
type ClubDetailResult struct {
	Club     club.Club
	IsMember bool
	IsOwner  bool
	Events   []event.Event
	Posts    []PostView
}

// QueryClubDetail loads a club page: the club, its events and its board.
// PRE: ClubID is non-empty
// POST: Events ordered by date; Posts newest first
func QueryClubDetail(ctx context.Context, q ClubDetailQuery, deps ClubDetailDeps) (ClubDetailResult, error) {
	c, err := deps.ClubStore.GetByID(ctx, q.ClubID)
	if err != nil {
		return ClubDetailResult{}, err
	}
	res := ClubDetailResult{Club: c, IsOwner: c.IsOwner(q.ViewerID)}

	g, gctx := errgroup.WithContext(ctx)
	if q.ViewerID != "" {
		g.Go(func() error {
			member, err := deps.ClubStore.IsMember(gctx, c.ID, q.ViewerID)
			res.IsMember = member
			return err
		})
	}
	g.Go(func() error {
		events, err := deps.EventStore.ListByClub(gctx, c.ID)
		res.Events = events
		return err
	})
	g.Go(func() error {
		posts, err := deps.PostStore.ListByClub(gctx, c.ID, DefaultPostLimit)
		if err != nil {
			return err
		}
		res.Posts = make([]PostView, len(posts))
		for i, p := range posts {
			res.Posts[i] = PostView{Post: p, HTML: RenderMarkdown(p.Content)}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ClubDetailResult{}, err
	}
	return res, nil
}
