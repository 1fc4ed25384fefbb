package projections

import (
	"context"

	"connect/internal/domain/club"
	"connect/internal/domain/event"
)

// EventDetailDeps holds dependencies for the event detail projection.
type EventDetailDeps struct {
	EventStore interface {
		GetByID(ctx context.Context, id string) (event.Event, error)
	}
	ClubStore interface {
		GetByID(ctx context.Context, id string) (club.Club, error)
	}
}

// EventDetailResult carries the output of the event detail projection.
type EventDetailResult struct {
	Event    event.Event
	Club     club.Club
	MyStatus string // viewer's RSVP, "" if none
	Maybe    int
	IsFull   bool
}

// QueryEventDetail loads an event with its host club and the viewer's RSVP.
// PRE: EventID is non-empty
func QueryEventDetail(ctx context.Context, eventID, viewerID string, deps EventDetailDeps) (EventDetailResult, error) {
	e, err := deps.EventStore.GetByID(ctx, eventID)
	if err != nil {
		return EventDetailResult{}, err
	}
	c, err := deps.ClubStore.GetByID(ctx, e.ClubID)
	if err != nil {
		return EventDetailResult{}, err
	}

	res := EventDetailResult{
		Event:    e,
		Club:     c,
		MyStatus: e.StatusFor(viewerID),
		IsFull:   e.IsFull(),
	}
	for _, s := range e.RSVPs {
		if s == event.RSVPMaybe {
			res.Maybe++
		}
	}
	return res, nil
}
