package event

import (
	"context"
	"time"

	domain "connect/internal/domain/event"
)

// Store persists events and their RSVPs.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	ListByClub(ctx context.Context, clubID string) ([]domain.Event, error)
	// ListUpcomingForMember returns events on or after from in clubs userID has joined.
	ListUpcomingForMember(ctx context.Context, userID string, from time.Time, limit int) ([]domain.Event, error)
	Save(ctx context.Context, value domain.Event) error
	SaveRSVP(ctx context.Context, eventID, userID, status string, at time.Time) error
}
