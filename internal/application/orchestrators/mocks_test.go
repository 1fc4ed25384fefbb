package orchestrators

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"connect/internal/adapters/storage"
	"connect/internal/adapters/ws"
	"connect/internal/domain/account"
	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
	"connect/internal/domain/post"
	"connect/internal/domain/profile"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testNow() time.Time { return testTime }

// sequentialIDs returns an ID generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
}

// --- accounts ---

type mockAccountStore struct {
	accounts map[string]account.Account
	tokens   map[string]account.ResetToken
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: map[string]account.Account{}, tokens: map[string]account.ResetToken{}}
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return account.Account{}, notFound("account", id)
	}
	return a, nil
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == account.NormalizeEmail(email) {
			return a, nil
		}
	}
	return account.Account{}, notFound("account", email)
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) SaveResetToken(_ context.Context, t account.ResetToken) error {
	m.tokens[t.TokenHash] = t
	return nil
}

func (m *mockAccountStore) GetResetTokenByHash(_ context.Context, hash string) (account.ResetToken, error) {
	t, ok := m.tokens[hash]
	if !ok {
		return account.ResetToken{}, notFound("reset token", hash)
	}
	return t, nil
}

func (m *mockAccountStore) InvalidateResetTokens(_ context.Context, accountID string) error {
	for h, t := range m.tokens {
		if t.AccountID == accountID {
			t.Used = true
			m.tokens[h] = t
		}
	}
	return nil
}

// --- profiles ---

type mockProfileStore struct {
	profiles map[string]profile.Profile
}

func newMockProfileStore(ps ...profile.Profile) *mockProfileStore {
	m := &mockProfileStore{profiles: map[string]profile.Profile{}}
	for _, p := range ps {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *mockProfileStore) GetByID(_ context.Context, id string) (profile.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return profile.Profile{}, notFound("profile", id)
	}
	return p, nil
}

func (m *mockProfileStore) Save(_ context.Context, p profile.Profile) error {
	m.profiles[p.ID] = p
	return nil
}

// --- clubs ---

type mockClubStore struct {
	clubs   map[string]club.Club
	members map[string][]string
}

func newMockClubStore(cs ...club.Club) *mockClubStore {
	m := &mockClubStore{clubs: map[string]club.Club{}, members: map[string][]string{}}
	for _, c := range cs {
		m.clubs[c.ID] = c
	}
	return m
}

func (m *mockClubStore) GetByID(_ context.Context, id string) (club.Club, error) {
	c, ok := m.clubs[id]
	if !ok {
		return club.Club{}, notFound("club", id)
	}
	return c, nil
}

func (m *mockClubStore) List(_ context.Context) ([]club.Club, error) {
	out := make([]club.Club, 0, len(m.clubs))
	for _, c := range m.clubs {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockClubStore) Save(_ context.Context, c club.Club) error {
	if existing, ok := m.clubs[c.ID]; ok {
		c.MemberCount = existing.MemberCount
	}
	m.clubs[c.ID] = c
	return nil
}

func (m *mockClubStore) Delete(_ context.Context, id string) error {
	if _, ok := m.clubs[id]; !ok {
		return notFound("club", id)
	}
	delete(m.clubs, id)
	delete(m.members, id)
	return nil
}

func (m *mockClubStore) AddMember(_ context.Context, clubID, userID string, _ time.Time) (bool, error) {
	c, ok := m.clubs[clubID]
	if !ok {
		return false, notFound("club", clubID)
	}
	if slices.Contains(m.members[clubID], userID) {
		return false, nil
	}
	m.members[clubID] = append(m.members[clubID], userID)
	c.AddMember()
	m.clubs[clubID] = c
	return true, nil
}

func (m *mockClubStore) RemoveMember(_ context.Context, clubID, userID string) (bool, error) {
	c, ok := m.clubs[clubID]
	if !ok {
		return false, notFound("club", clubID)
	}
	i := slices.Index(m.members[clubID], userID)
	if i < 0 {
		return false, nil
	}
	m.members[clubID] = slices.Delete(m.members[clubID], i, i+1)
	c.RemoveMember()
	m.clubs[clubID] = c
	return true, nil
}

func (m *mockClubStore) IsMember(_ context.Context, clubID, userID string) (bool, error) {
	return slices.Contains(m.members[clubID], userID), nil
}

func (m *mockClubStore) ListMemberIDs(_ context.Context, clubID string) ([]string, error) {
	return slices.Clone(m.members[clubID]), nil
}

// --- events ---

type mockEventStore struct {
	events map[string]event.Event
}

func newMockEventStore(es ...event.Event) *mockEventStore {
	m := &mockEventStore{events: map[string]event.Event{}}
	for _, e := range es {
		m.events[e.ID] = e.Clone()
	}
	return m
}

func (m *mockEventStore) GetByID(_ context.Context, id string) (event.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return event.Event{}, notFound("event", id)
	}
	return e.Clone(), nil
}

func (m *mockEventStore) Save(_ context.Context, e event.Event) error {
	m.events[e.ID] = e.Clone()
	return nil
}

func (m *mockEventStore) SaveRSVP(_ context.Context, eventID, userID, status string, _ time.Time) error {
	e, ok := m.events[eventID]
	if !ok {
		return notFound("event", eventID)
	}
	e = e.Clone()
	if err := e.SetRSVP(userID, status); err != nil {
		return err
	}
	m.events[eventID] = e
	return nil
}

// --- posts ---

type mockPostStore struct {
	posts []post.Post
}

func (m *mockPostStore) Save(_ context.Context, p post.Post) error {
	m.posts = append(m.posts, p)
	return nil
}

// --- notifications ---

type mockNotificationStore struct {
	items map[string]notification.Notification
	order []string
}

func newMockNotificationStore(ns ...notification.Notification) *mockNotificationStore {
	m := &mockNotificationStore{items: map[string]notification.Notification{}}
	for _, n := range ns {
		m.items[n.ID] = n
		m.order = append(m.order, n.ID)
	}
	return m
}

func (m *mockNotificationStore) GetByID(_ context.Context, id string) (notification.Notification, error) {
	n, ok := m.items[id]
	if !ok {
		return notification.Notification{}, notFound("notification", id)
	}
	return n, nil
}

func (m *mockNotificationStore) Save(_ context.Context, n notification.Notification) error {
	if _, ok := m.items[n.ID]; !ok {
		m.order = append(m.order, n.ID)
	}
	m.items[n.ID] = n
	return nil
}

func (m *mockNotificationStore) SaveBatch(ctx context.Context, ns []notification.Notification) error {
	for _, n := range ns {
		m.Save(ctx, n)
	}
	return nil
}

func (m *mockNotificationStore) all() []notification.Notification {
	out := make([]notification.Notification, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out
}

// --- publisher ---

type published struct {
	UserID string
	Event  ws.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) PublishToUser(userID string, ev ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{userID, ev})
}

func (p *recordingPublisher) ops(userID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		if e.UserID == userID {
			out = append(out, e.Event.Op)
		}
	}
	return out
}

// --- fixtures ---

func ava() profile.Profile {
	return profile.Profile{ID: "u-ava", Name: "Ava", Email: "ava@x.com", City: "Austin", Interests: []string{"Tech", "Music", "Art"}}
}

func ben() profile.Profile {
	return profile.Profile{ID: "u-ben", Name: "Ben", Email: "ben@x.com", City: "Denver"}
}

func byteClub() club.Club {
	return club.Club{
		ID: "c1", Name: "Byte Club", Category: "Tech", Location: "Austin",
		Visibility: club.VisibilityPublic, OwnerID: "u-ava", Tags: []string{"Coding"},
	}
}
