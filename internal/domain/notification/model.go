package notification

import (
	"errors"
	"slices"
	"time"
)

// Notification types
const (
	TypeEventInvite = "EVENT_INVITE"
	TypeNewPost     = "NEW_POST"
	TypeRSVPUpdate  = "RSVP_UPDATE"
	TypeClubJoin    = "CLUB_JOIN"
)

// ValidTypes contains all valid notification types.
var ValidTypes = []string{TypeEventInvite, TypeNewPost, TypeRSVPUpdate, TypeClubJoin}

// Views a notification can open.
const (
	ViewClub  = "club"
	ViewEvent = "event"
)

// Domain errors
var (
	ErrEmptyUser    = errors.New("notification must have a recipient")
	ErrEmptyMessage = errors.New("notification message cannot be empty")
	ErrInvalidType  = errors.New("notification type must be one of: EVENT_INVITE, NEW_POST, RSVP_UPDATE, CLUB_JOIN")
)

// Notification tells a user something happened in a club they care about.
// LinkID and View identify what opening it should show.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Message   string
	Read      bool
	LinkID    string
	View      string
	CreatedAt time.Time
}

// Validate checks if the Notification has valid data.
// PRE: Notification struct is populated
// POST: Returns nil if valid, error otherwise
func (n *Notification) Validate() error {
	if n.UserID == "" {
		return ErrEmptyUser
	}
	if n.Message == "" {
		return ErrEmptyMessage
	}
	if !slices.Contains(ValidTypes, n.Type) {
		return ErrInvalidType
	}
	return nil
}

// MarkRead marks the notification as read.
// POST: Read is true
func (n *Notification) MarkRead() {
	n.Read = true
}

// DefaultView returns the view a notification of type t links to.
func DefaultView(t string) string {
	switch t {
	case TypeEventInvite, TypeRSVPUpdate:
		return ViewEvent
	default:
		return ViewClub
	}
}

// CountUnread returns how many of ns are unread.
func CountUnread(ns []Notification) int {
	n := 0
	for _, x := range ns {
		if !x.Read {
			n++
		}
	}
	return n
}
