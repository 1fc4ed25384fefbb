// Package client is the data and auth layer the application core talks to.
//
// DataAccess has two implementations: Mock, an in-memory dataset with
// simulated latency, and Remote, which calls the JSON API. Auth is the
// identity collaborator; RemoteAuth implements it over the same API plus the
// auth-state websocket.
package client

import (
	"context"
	"errors"
	"time"

	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
	"connect/internal/domain/post"
)

// ErrNotFound is returned for unknown club or event IDs.
var ErrNotFound = errors.New("not found")

// ClubFilter narrows and orders a club listing.
type ClubFilter = club.Filter

// ClubInput carries the fields of a new club.
type ClubInput struct {
	Name        string
	Description string
	Category    string
	Location    string
	Visibility  string
	Tags        []string
	Image       string
	CoverImage  string
	OwnerID     string
	FounderName string
	FounderBio  string
}

// EventInput carries the fields of a new event.
type EventInput struct {
	ClubID      string
	Title       string
	Description string
	Date        time.Time
	Location    string
	Capacity    int
	Image       string
	BannerImage string
}

// DataAccess is every read and write the views need.
// Implementations are safe for concurrent use and honour ctx cancellation.
type DataAccess interface {
	ListClubs(ctx context.Context, filter ClubFilter) ([]club.Club, error)
	GetClub(ctx context.Context, clubID string) (club.Club, error)
	ListEvents(ctx context.Context, clubID string) ([]event.Event, error)
	GetEvent(ctx context.Context, eventID string) (event.Event, error)
	ListPosts(ctx context.Context, clubID string) ([]post.Post, error)
	ListNotifications(ctx context.Context, userID string) ([]notification.Notification, error)

	JoinClub(ctx context.Context, clubID, userID string) (club.Club, error)
	LeaveClub(ctx context.Context, clubID, userID string) (club.Club, error)
	CreateClub(ctx context.Context, in ClubInput) (club.Club, error)
	DeleteClub(ctx context.Context, clubID string) error
	CreateEvent(ctx context.Context, in EventInput) (event.Event, error)
	RSVPEvent(ctx context.Context, eventID, userID, status string) (event.Event, error)
}
