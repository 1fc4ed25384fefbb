package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connect/internal/adapters/genai"
	"connect/internal/adapters/ws"
	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
)

// ClubReader defines the read-side club store interface needed by event and post orchestrators.
type ClubReader interface {
	GetByID(ctx context.Context, id string) (club.Club, error)
	IsMember(ctx context.Context, clubID, userID string) (bool, error)
	ListMemberIDs(ctx context.Context, clubID string) ([]string, error)
}

// EventStoreForOrchestrator defines the event store interface needed by event orchestrators.
type EventStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
	Save(ctx context.Context, e event.Event) error
	// SaveRSVP enforces capacity atomically and returns event.ErrEventFull on refusal.
	SaveRSVP(ctx context.Context, eventID, userID, status string, at time.Time) error
}

// --- Create Event ---

// CreateEventInput carries input for the create event orchestrator.
type CreateEventInput struct {
	ActorID     string
	ClubID      string
	Title       string
	Description string
	Date        time.Time
	Location    string
	Capacity    int
	Image       string
	BannerImage string
}

// CreateEventDeps holds dependencies for CreateEvent.
// Copywriter is optional; when set it fills in a missing description.
type CreateEventDeps struct {
	ClubStore         ClubReader
	EventStore        EventStoreForOrchestrator
	NotificationStore NotificationWriter
	Publisher         ws.Publisher
	Copywriter        genai.Copywriter
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteCreateEvent schedules an event in a club and invites its members.
// PRE: actor is a member of the club; title, date and location are set
// POST: event persisted with no RSVPs; every other member gets an EVENT_INVITE
func ExecuteCreateEvent(ctx context.Context, input CreateEventInput, deps CreateEventDeps) (event.Event, error) {
	c, err := deps.ClubStore.GetByID(ctx, input.ClubID)
	if err != nil {
		return event.Event{}, err
	}
	member, err := deps.ClubStore.IsMember(ctx, c.ID, input.ActorID)
	if err != nil {
		return event.Event{}, err
	}
	if !member {
		return event.Event{}, club.ErrNotMember
	}

	now := deps.Now()
	e := event.Event{
		ID:          deps.GenerateID(),
		ClubID:      c.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
		Location:    strings.TrimSpace(input.Location),
		Image:       input.Image,
		BannerImage: input.BannerImage,
		Capacity:    input.Capacity,
		RSVPs:       map[string]string{},
		CreatedAt:   now,
	}
	if e.Image == "" {
		e.Image = "https://picsum.photos/seed/" + e.ID + "/800/600"
	}
	if e.BannerImage == "" {
		e.BannerImage = "https://picsum.photos/seed/" + e.ID + "/1600/600"
	}
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}
	if e.Description == "" && deps.Copywriter != nil {
		e.Description = deps.Copywriter.EventDescription(ctx, e.Title, c.Tags, e.Location)
	}

	if err := deps.EventStore.Save(ctx, e); err != nil {
		return event.Event{}, err
	}

	members, err := deps.ClubStore.ListMemberIDs(ctx, c.ID)
	if err != nil {
		slog.Error("event_event", "event", "invite_lookup_failed", "event_id", e.ID, "error", err)
	} else {
		ns := fanOut(members, input.ActorID, deps.GenerateID, notification.Notification{
			Type:      notification.TypeEventInvite,
			Message:   fmt.Sprintf("New event in %s: %s", c.Name, e.Title),
			LinkID:    e.ID,
			View:      notification.ViewEvent,
			CreatedAt: now,
		})
		if err := notify(ctx, deps.NotificationStore, deps.Publisher, ns); err != nil {
			slog.Error("event_event", "event", "invite_notify_failed", "event_id", e.ID, "error", err)
		}
	}

	slog.Info("event_event", "event", "event_created", "event_id", e.ID, "club_id", c.ID, "date", e.Date)
	return e, nil
}

// --- RSVP ---

// RSVPInput carries input for the RSVP orchestrator.
type RSVPInput struct {
	UserID  string
	EventID string
	Status  string
}

// RSVPDeps holds dependencies for RSVP.
type RSVPDeps struct {
	EventStore        EventStoreForOrchestrator
	ClubStore         ClubReader
	ProfileStore      ProfileReader
	NotificationStore NotificationWriter
	Publisher         ws.Publisher
	GenerateID        func() string
	Now               func() time.Time
}

var rsvpVerbs = map[string]string{
	event.RSVPGoing:    "is going to",
	event.RSVPMaybe:    "might go to",
	event.RSVPNotGoing: "can't make it to",
}

// ExecuteRSVP records the user's response and returns the updated event.
// PRE: status is going, maybe or not_going
// POST: exactly one RSVP for the user; Attendees recounted; club owner notified
// INVARIANT: a new "going" never pushes Attendees past a non-zero Capacity
func ExecuteRSVP(ctx context.Context, input RSVPInput, deps RSVPDeps) (event.Event, error) {
	e, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		return event.Event{}, err
	}
	previous := e.StatusFor(input.UserID)
	if err := e.SetRSVP(input.UserID, input.Status); err != nil {
		return event.Event{}, err
	}
	now := deps.Now()
	if err := deps.EventStore.SaveRSVP(ctx, e.ID, input.UserID, input.Status, now); err != nil {
		return event.Event{}, err
	}
	// Other RSVPs may have landed since the read above.
	if fresh, err := deps.EventStore.GetByID(ctx, e.ID); err == nil {
		e = fresh
	}
	if previous == input.Status {
		return e, nil
	}

	c, err := deps.ClubStore.GetByID(ctx, e.ClubID)
	if err == nil && !c.IsOwner(input.UserID) {
		name := "Someone"
		if p, err := deps.ProfileStore.GetByID(ctx, input.UserID); err == nil {
			name = p.Name
		}
		ns := fanOut([]string{c.OwnerID}, input.UserID, deps.GenerateID, notification.Notification{
			Type:      notification.TypeRSVPUpdate,
			Message:   fmt.Sprintf("%s %s %s", name, rsvpVerbs[input.Status], e.Title),
			LinkID:    e.ID,
			View:      notification.ViewEvent,
			CreatedAt: now,
		})
		if err := notify(ctx, deps.NotificationStore, deps.Publisher, ns); err != nil {
			slog.Error("event_event", "event", "rsvp_notify_failed", "event_id", e.ID, "error", err)
		}
	}

	slog.Info("event_event", "event", "rsvp_recorded", "event_id", e.ID, "user_id", input.UserID, "status", input.Status, "attendees", e.Attendees)
	return e, nil
}
