package event

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"time"
)

// RSVP statuses
const (
	RSVPGoing    = "going"
	RSVPMaybe    = "maybe"
	RSVPNotGoing = "not_going"
)

// ValidStatuses contains all valid RSVP statuses.
var ValidStatuses = []string{RSVPGoing, RSVPMaybe, RSVPNotGoing}

// Max length constants.
const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
)

// Domain errors
var (
	ErrEmptyTitle       = errors.New("event title cannot be empty")
	ErrTitleTooLong     = errors.New("event title cannot exceed 120 characters")
	ErrEmptyDate        = errors.New("event date is required")
	ErrEmptyLocation    = errors.New("event location cannot be empty")
	ErrEmptyClub        = errors.New("event must belong to a club")
	ErrNegativeCapacity = errors.New("event capacity cannot be negative")
	ErrInvalidStatus    = errors.New("rsvp status must be one of: going, maybe, not_going")
	ErrEmptyUser        = errors.New("rsvp requires a user")
	ErrEventFull        = errors.New("event is at capacity")
)

// Event is a dated gathering hosted by a club.
// Capacity 0 means unlimited.
// INVARIANT: Attendees == count of RSVPs with status going
// INVARIANT: at most one RSVP per user
type Event struct {
	ID          string
	ClubID      string
	Title       string
	Description string
	Date        time.Time
	Location    string
	Image       string
	BannerImage string
	Capacity    int
	Attendees   int
	RSVPs       map[string]string
	CreatedAt   time.Time
}

// Validate checks if the Event has valid data.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(e.Description) > MaxDescriptionLength {
		return errors.New("event description cannot exceed 2000 characters")
	}
	if e.Date.IsZero() {
		return ErrEmptyDate
	}
	if strings.TrimSpace(e.Location) == "" {
		return ErrEmptyLocation
	}
	if e.ClubID == "" {
		return ErrEmptyClub
	}
	if e.Capacity < 0 {
		return ErrNegativeCapacity
	}
	return nil
}

// SetRSVP records userID's status, replacing any previous one, and recounts attendees.
// PRE: status is a valid RSVP status
// POST: RSVPs[userID] == status; Attendees recomputed
// Returns ErrEventFull when a new "going" would exceed Capacity.
func (e *Event) SetRSVP(userID, status string) error {
	if userID == "" {
		return ErrEmptyUser
	}
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	if e.RSVPs == nil {
		e.RSVPs = make(map[string]string)
	}
	if status == RSVPGoing && e.RSVPs[userID] != RSVPGoing && e.IsFull() {
		return ErrEventFull
	}
	e.RSVPs[userID] = status
	e.Recount()
	return nil
}

// StatusFor returns userID's RSVP or "" if none.
func (e *Event) StatusFor(userID string) string {
	return e.RSVPs[userID]
}

// IsFull reports whether the going count has reached a non-zero capacity.
func (e *Event) IsFull() bool {
	return e.Capacity > 0 && e.Attendees >= e.Capacity
}

// Recount recomputes Attendees from RSVPs.
func (e *Event) Recount() {
	n := 0
	for _, s := range e.RSVPs {
		if s == RSVPGoing {
			n++
		}
	}
	e.Attendees = n
}

// IsUpcoming reports whether the event starts at or after now.
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.Date.Before(now)
}

// Clone returns a deep copy safe to hand to another goroutine.
func (e Event) Clone() Event {
	e.RSVPs = maps.Clone(e.RSVPs)
	return e
}

// IsValidStatus reports whether s is a known RSVP status.
func IsValidStatus(s string) bool {
	return slices.Contains(ValidStatuses, s)
}
