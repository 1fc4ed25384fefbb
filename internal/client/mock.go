package client

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"connect/internal/application/sample"
	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
	"connect/internal/domain/post"
)

// Latency is the simulated delay per kind of call.
type Latency struct {
	List   time.Duration // listings and single reads
	Join   time.Duration // join and leave
	Create time.Duration // create club and create event
	Delete time.Duration
	RSVP   time.Duration
}

// DefaultLatency mimics a slow network.
var DefaultLatency = Latency{
	List:   600 * time.Millisecond,
	Join:   800 * time.Millisecond,
	Create: 1000 * time.Millisecond,
	Delete: 1000 * time.Millisecond,
	RSVP:   500 * time.Millisecond,
}

// Mock is an in-memory DataAccess seeded with the sample dataset.
// Every call waits its simulated latency first and gives up early if ctx ends.
// Writes change the shared dataset, so every caller sees the same state.
type Mock struct {
	latency Latency
	now     func() time.Time
	newID   func() string

	mu            sync.Mutex
	clubIDs       club.IDSequence
	clubs         []club.Club // newest first
	events        []event.Event
	posts         []post.Post
	members       map[string]map[string]bool // club ID -> user IDs
	notifications map[string][]notification.Notification
}

// MockOption tunes a Mock.
type MockOption func(*Mock)

// WithLatency replaces DefaultLatency. Use Latency{} in tests.
func WithLatency(l Latency) MockOption {
	return func(m *Mock) { m.latency = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MockOption {
	return func(m *Mock) { m.now = now }
}

// NewMock returns a Mock holding a fresh copy of the sample data.
func NewMock(opts ...MockOption) *Mock {
	m := &Mock{
		latency:       DefaultLatency,
		now:           time.Now,
		newID:         uuid.NewString,
		members:       make(map[string]map[string]bool),
		notifications: make(map[string][]notification.Notification),
	}
	for _, opt := range opts {
		opt(m)
	}
	now := m.now()
	m.clubs = sample.Clubs(now)
	m.events = sample.Events(now)
	m.posts = sample.Posts(now)
	return m
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func cloneClub(c club.Club) club.Club {
	c.Tags = slices.Clone(c.Tags)
	return c
}

func (m *Mock) clubIndex(id string) int {
	return slices.IndexFunc(m.clubs, func(c club.Club) bool { return c.ID == id })
}

func (m *Mock) eventIndex(id string) int {
	return slices.IndexFunc(m.events, func(e event.Event) bool { return e.ID == id })
}

// ListClubs returns a snapshot of the clubs matching filter.
// POST: the stored dataset is unchanged
func (m *Mock) ListClubs(ctx context.Context, filter ClubFilter) ([]club.Club, error) {
	if err := wait(ctx, m.latency.List); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return filter.Apply(m.clubs), nil
}

// GetClub returns one club.
func (m *Mock) GetClub(ctx context.Context, clubID string) (club.Club, error) {
	if err := wait(ctx, m.latency.List); err != nil {
		return club.Club{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.clubIndex(clubID)
	if i < 0 {
		return club.Club{}, fmt.Errorf("club %s: %w", clubID, ErrNotFound)
	}
	return cloneClub(m.clubs[i]), nil
}

// ListEvents returns the club's events ordered by date.
func (m *Mock) ListEvents(ctx context.Context, clubID string) ([]event.Event, error) {
	if err := wait(ctx, m.latency.List); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clubIndex(clubID) < 0 {
		return nil, fmt.Errorf("club %s: %w", clubID, ErrNotFound)
	}
	var out []event.Event
	for _, e := range m.events {
		if e.ClubID == clubID {
			out = append(out, e.Clone())
		}
	}
	slices.SortStableFunc(out, func(a, b event.Event) int { return a.Date.Compare(b.Date) })
	return out, nil
}

// GetEvent returns one event.
func (m *Mock) GetEvent(ctx context.Context, eventID string) (event.Event, error) {
	if err := wait(ctx, m.latency.List); err != nil {
		return event.Event{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.eventIndex(eventID)
	if i < 0 {
		return event.Event{}, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	return m.events[i].Clone(), nil
}

// ListPosts returns the club's board, newest first.
func (m *Mock) ListPosts(ctx context.Context, clubID string) ([]post.Post, error) {
	if err := wait(ctx, m.latency.List); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clubIndex(clubID) < 0 {
		return nil, fmt.Errorf("club %s: %w", clubID, ErrNotFound)
	}
	var out []post.Post
	for _, p := range m.posts {
		if p.ClubID == clubID {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b post.Post) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

// ListNotifications returns the user's notifications, creating the starter
// set on first use.
func (m *Mock) ListNotifications(ctx context.Context, userID string) ([]notification.Notification, error) {
	if err := wait(ctx, m.latency.List); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.notifications[userID]
	if !ok {
		ns = sample.Notifications(userID, m.now())
		m.notifications[userID] = ns
	}
	return slices.Clone(ns), nil
}

// JoinClub adds userID to the club.
// POST: MemberCount grows by one only if the user was not already a member
func (m *Mock) JoinClub(ctx context.Context, clubID, userID string) (club.Club, error) {
	if err := wait(ctx, m.latency.Join); err != nil {
		return club.Club{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.clubIndex(clubID)
	if i < 0 {
		return club.Club{}, fmt.Errorf("club %s: %w", clubID, ErrNotFound)
	}
	if m.members[clubID] == nil {
		m.members[clubID] = make(map[string]bool)
	}
	if !m.members[clubID][userID] {
		m.members[clubID][userID] = true
		m.clubs[i].AddMember()
	}
	return cloneClub(m.clubs[i]), nil
}

// LeaveClub removes userID from the club.
// INVARIANT: MemberCount never drops below zero
func (m *Mock) LeaveClub(ctx context.Context, clubID, userID string) (club.Club, error) {
	if err := wait(ctx, m.latency.Join); err != nil {
		return club.Club{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.clubIndex(clubID)
	if i < 0 {
		return club.Club{}, fmt.Errorf("club %s: %w", clubID, ErrNotFound)
	}
	if m.members[clubID][userID] {
		delete(m.members[clubID], userID)
		m.clubs[i].RemoveMember()
	}
	return cloneClub(m.clubs[i]), nil
}

// IsMember reports whether userID has joined the club.
func (m *Mock) IsMember(clubID, userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.members[clubID][userID]
}

// CreateClub stores a new club at the head of the listing with its owner as
// the only member.
// POST: ID is unique and newer than every earlier one; MemberCount == 1
func (m *Mock) CreateClub(ctx context.Context, in ClubInput) (club.Club, error) {
	if err := wait(ctx, m.latency.Create); err != nil {
		return club.Club{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	c := club.Club{
		ID:          m.clubIDs.Next(now),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		MemberCount: 1,
		Image:       in.Image,
		CoverImage:  in.CoverImage,
		Tags:        club.NormalizeTags(in.Tags),
		Visibility:  in.Visibility,
		Location:    strings.TrimSpace(in.Location),
		OwnerID:     in.OwnerID,
		FounderName: in.FounderName,
		FounderBio:  in.FounderBio,
		CreatedAt:   now,
	}
	if c.Visibility == "" {
		c.Visibility = club.VisibilityPublic
	}
	if c.Image == "" {
		c.Image = "https://picsum.photos/seed/" + c.ID + "/800/600"
	}
	if c.CoverImage == "" {
		c.CoverImage = "https://picsum.photos/seed/" + c.ID + "/1600/600"
	}
	m.clubs = slices.Insert(m.clubs, 0, c)
	if in.OwnerID != "" {
		m.members[c.ID] = map[string]bool{in.OwnerID: true}
	}
	return cloneClub(c), nil
}

// DeleteClub removes the club with its events and posts.
func (m *Mock) DeleteClub(ctx context.Context, clubID string) error {
	if err := wait(ctx, m.latency.Delete); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.clubIndex(clubID)
	if i < 0 {
		return fmt.Errorf("club %s: %w", clubID, ErrNotFound)
	}
	m.clubs = slices.Delete(m.clubs, i, i+1)
	m.events = slices.DeleteFunc(m.events, func(e event.Event) bool { return e.ClubID == clubID })
	m.posts = slices.DeleteFunc(m.posts, func(p post.Post) bool { return p.ClubID == clubID })
	delete(m.members, clubID)
	return nil
}

// CreateEvent adds an event to an existing club.
func (m *Mock) CreateEvent(ctx context.Context, in EventInput) (event.Event, error) {
	if err := wait(ctx, m.latency.Create); err != nil {
		return event.Event{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clubIndex(in.ClubID) < 0 {
		return event.Event{}, fmt.Errorf("club %s: %w", in.ClubID, ErrNotFound)
	}
	id := m.newID()
	e := event.Event{
		ID:          id,
		ClubID:      in.ClubID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Date:        in.Date,
		Location:    strings.TrimSpace(in.Location),
		Image:       in.Image,
		BannerImage: in.BannerImage,
		Capacity:    in.Capacity,
		RSVPs:       map[string]string{},
		CreatedAt:   m.now(),
	}
	if e.Image == "" {
		e.Image = "https://picsum.photos/seed/" + id + "/800/600"
	}
	if e.BannerImage == "" {
		e.BannerImage = "https://picsum.photos/seed/" + id + "/1600/600"
	}
	m.events = append(m.events, e)
	return e.Clone(), nil
}

// RSVPEvent records userID's status on the shared event, last write wins.
// POST: RSVPs holds one entry for userID; Attendees recounted
func (m *Mock) RSVPEvent(ctx context.Context, eventID, userID, status string) (event.Event, error) {
	if err := wait(ctx, m.latency.RSVP); err != nil {
		return event.Event{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.eventIndex(eventID)
	if i < 0 {
		return event.Event{}, fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}
	e := m.events[i].Clone()
	if err := e.SetRSVP(userID, status); err != nil {
		return event.Event{}, err
	}
	m.events[i] = e
	return e.Clone(), nil
}
