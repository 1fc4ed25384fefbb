package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connect/internal/adapters/ws"
	"connect/internal/domain/club"
	"connect/internal/domain/notification"
	"connect/internal/domain/post"
)

// PostWriter defines the post store interface needed by CreatePost.
type PostWriter interface {
	Save(ctx context.Context, p post.Post) error
}

// CreatePostInput carries input for the create post orchestrator.
type CreatePostInput struct {
	AuthorID string
	ClubID   string
	Content  string
}

// CreatePostDeps holds dependencies for CreatePost.
type CreatePostDeps struct {
	ClubStore         ClubReader
	ProfileStore      ProfileReader
	PostStore         PostWriter
	NotificationStore NotificationWriter
	Publisher         ws.Publisher
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteCreatePost appends a post to a club board.
// PRE: author is a member of the club
// POST: post persisted with an author snapshot; other members get NEW_POST
func ExecuteCreatePost(ctx context.Context, input CreatePostInput, deps CreatePostDeps) (post.Post, error) {
	c, err := deps.ClubStore.GetByID(ctx, input.ClubID)
	if err != nil {
		return post.Post{}, err
	}
	member, err := deps.ClubStore.IsMember(ctx, c.ID, input.AuthorID)
	if err != nil {
		return post.Post{}, err
	}
	if !member {
		return post.Post{}, club.ErrNotMember
	}
	author, err := deps.ProfileStore.GetByID(ctx, input.AuthorID)
	if err != nil {
		return post.Post{}, err
	}

	now := deps.Now()
	p := post.Post{
		ID:        deps.GenerateID(),
		ClubID:    c.ID,
		Author:    post.Author{ID: author.ID, Name: author.Name, Avatar: author.Avatar},
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return post.Post{}, err
	}
	if err := deps.PostStore.Save(ctx, p); err != nil {
		return post.Post{}, err
	}

	members, err := deps.ClubStore.ListMemberIDs(ctx, c.ID)
	if err != nil {
		slog.Error("post_event", "event", "post_notify_lookup_failed", "post_id", p.ID, "error", err)
	} else {
		ns := fanOut(members, author.ID, deps.GenerateID, notification.Notification{
			Type:      notification.TypeNewPost,
			Message:   fmt.Sprintf("%s posted in %s", author.Name, c.Name),
			LinkID:    c.ID,
			View:      notification.ViewClub,
			CreatedAt: now,
		})
		if err := notify(ctx, deps.NotificationStore, deps.Publisher, ns); err != nil {
			slog.Error("post_event", "event", "post_notify_failed", "post_id", p.ID, "error", err)
		}
	}

	slog.Info("post_event", "event", "post_created", "post_id", p.ID, "club_id", c.ID, "author_id", author.ID)
	return p, nil
}
