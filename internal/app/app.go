package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"connect/internal/adapters/genai"
	"connect/internal/client"
	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/notification"
	"connect/internal/domain/post"
	"connect/internal/domain/profile"
)

// FormError is a validation message shown on the form that caused it.
// No remote call is made when one is returned.
type FormError string

func (e FormError) Error() string { return string(e) }

// Form messages.
const (
	ErrFillAllFields FormError = "Please fill in all fields."
	ErrNameRequired  FormError = "Please enter your name."
	ErrEmailRequired FormError = "Please enter your email."
	ErrClubName      FormError = "Please give your club a name."
	ErrClubCategory  FormError = "Please pick a category."
	ErrClubLocation  FormError = "Please add a location."
	ErrEventClub     FormError = "Open a club before creating an event."
	ErrEventTitle    FormError = "Please give your event a title."
	ErrEventDate     FormError = "Please pick a date."
	ErrEventLocation FormError = "Please add a location."
	ErrNegativeSeats FormError = "Capacity cannot be negative."
)

// WelcomeMessage greets a user who finished onboarding.
const WelcomeMessage = "Welcome to Connect!"

const (
	welcomeToastID    = "welcome"
	profileSaveFailed = "We couldn't save your profile. Please try again."
)

var (
	// ErrSignInRequired is returned by actions that need a user when none is signed in.
	ErrSignInRequired = errors.New("sign in first")
	// ErrStale is returned when the view changed before a load finished; the
	// result was discarded.
	ErrStale = errors.New("view changed before the result arrived")
)

// ClubPage is everything the club screen shows.
type ClubPage struct {
	Club     club.Club
	Events   []event.Event
	Posts    []post.Post
	IsMember bool
	IsOwner  bool
}

// DashboardData is the signed-in home screen.
type DashboardData struct {
	Nearby        []club.Club
	Notifications []notification.Notification
	Unread        int
}

// ClubForm is the create-club form.
type ClubForm struct {
	Name        string
	Description string
	Category    string
	Location    string
	Visibility  string
	Tags        []string
	Image       string
	FounderBio  string
}

// EventForm is the create-event form. ClubID defaults to the selected club.
type EventForm struct {
	ClubID      string
	Title       string
	Description string
	Date        time.Time
	Location    string
	Capacity    int
	Image       string
}

// Deps are the collaborators an App talks to. Copywriter is optional.
type Deps struct {
	Data       client.DataAccess
	Auth       client.Auth
	Copywriter genai.Copywriter
	Scheduler  Scheduler
	// OnChange is called after state visible to views changes.
	OnChange func()
}

// App is the root of the client: session, navigation, toasts and the
// callbacks views invoke. All fields are written under mu only.
type App struct {
	data     client.DataAccess
	auth     client.Auth
	copy     genai.Copywriter
	toasts   *ToastQueue
	onChange func()

	mu            sync.Mutex
	router        *Router
	user          *profile.Profile
	wizard        *Wizard
	sub           client.Subscription
	formErr       string
	busy          int
	resetSent     bool
	clubs         []club.Club
	page          *ClubPage
	eventPage     *event.Event
	dashboard     *DashboardData
	notifications []notification.Notification
}

// New returns an App on the Landing view.
func New(deps Deps) *App {
	a := &App{
		data:     deps.Data,
		auth:     deps.Auth,
		copy:     deps.Copywriter,
		onChange: deps.OnChange,
		router:   NewRouter(),
	}
	a.toasts = NewToastQueue(deps.Scheduler, func([]Toast) { a.changed() })
	return a
}

func (a *App) changed() {
	if a.onChange != nil {
		a.onChange()
	}
}

// Start restores an existing session and subscribes to auth changes.
func (a *App) Start(ctx context.Context) error {
	sess, err := a.auth.Session(ctx)
	if err != nil {
		slog.Warn("app_event", "event", "session_check_failed", "error", err)
	}
	if sess != nil {
		user := sess.User
		if p, err := a.auth.GetProfile(ctx, user.ID); err == nil {
			user = p
		}
		a.applySignedIn(user)
	}

	sub, err := a.auth.Subscribe(ctx, a.handleAuthEvent)
	if err != nil {
		return fmt.Errorf("subscribe to auth changes: %w", err)
	}
	a.mu.Lock()
	a.sub = sub
	a.mu.Unlock()
	return nil
}

// Close tears down the auth subscription and pending toast timers.
func (a *App) Close() {
	a.mu.Lock()
	sub := a.sub
	a.sub = nil
	a.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
	a.toasts.Close()
}

func (a *App) handleAuthEvent(ev client.AuthEvent) {
	switch ev.Kind {
	case client.AuthSignedIn:
		if ev.Session != nil {
			a.applySignedIn(ev.Session.User)
		}
	case client.AuthSignedOut:
		a.applySignedOut()
	case client.AuthProfileUpdated:
		if ev.Profile == nil {
			return
		}
		a.mu.Lock()
		if a.user != nil && a.user.ID == ev.Profile.ID {
			a.user.Name = ev.Profile.Name
			a.user.Avatar = ev.Profile.Avatar
			a.user.City = ev.Profile.City
			a.user.Interests = slices.Clone(ev.Profile.Interests)
		}
		a.mu.Unlock()
		a.changed()
	case client.AuthNotification:
		if ev.Notification == nil {
			return
		}
		a.mu.Lock()
		a.notifications = slices.Insert(a.notifications, 0, *ev.Notification)
		a.mu.Unlock()
		a.toasts.Add(ToastInfo, ev.Notification.Message)
	}
}

// applySignedIn routes a freshly signed-in user to onboarding or the
// dashboard. Repeating it for the same user changes nothing.
func (a *App) applySignedIn(p profile.Profile) {
	a.mu.Lock()
	if a.user != nil && a.user.ID == p.ID && a.router.Current().ID() != ViewLanding &&
		a.router.Current().ID() != ViewAuth && a.router.Current().ID() != ViewSignup {
		a.mu.Unlock()
		return
	}
	u := p
	a.user = &u
	if p.NeedsOnboarding() {
		pending := PendingUser{ID: p.ID, Name: p.Name, Email: p.Email}
		a.startOnboarding(pending)
	} else {
		a.wizard = nil
		a.navigate(Dashboard{})
	}
	a.mu.Unlock()
	slog.Info("app_event", "event", "signed_in", "user_id", p.ID)
	a.changed()
}

func (a *App) applySignedOut() {
	a.mu.Lock()
	if a.user == nil && a.router.Current().ID() == ViewLanding {
		a.mu.Unlock()
		return
	}
	a.user = nil
	a.wizard = nil
	a.page = nil
	a.eventPage = nil
	a.dashboard = nil
	a.notifications = nil
	a.router.Reset()
	a.formErr = ""
	a.mu.Unlock()
	slog.Info("app_event", "event", "signed_out")
	a.changed()
}

// startOnboarding must be called with mu held.
func (a *App) startOnboarding(p PendingUser) {
	if a.wizard == nil || a.wizard.pending.ID != p.ID {
		a.wizard = NewWizard(p, a.auth)
	}
	a.router.SetPending(p)
	a.navigate(Onboarding{Pending: p})
}

// navigate must be called with mu held.
func (a *App) navigate(v View) View {
	a.formErr = ""
	return a.router.Navigate(v)
}

// --- Read side ---

// View returns the screen to render.
func (a *App) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.router.Current()
}

// Generation is the router generation; see Router.Generation.
func (a *App) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.router.Generation()
}

// User returns a copy of the signed-in user, or nil.
func (a *App) User() *profile.Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	u.Interests = slices.Clone(u.Interests)
	u.JoinedClubs = slices.Clone(u.JoinedClubs)
	return &u
}

// Pending returns the user awaiting onboarding, or nil.
func (a *App) Pending() *PendingUser {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.router.Pending()
}

// Wizard returns the onboarding wizard while onboarding is in progress.
func (a *App) Wizard() *Wizard {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wizard
}

// FormError returns the message for the form on screen, or "".
func (a *App) FormError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.formErr
}

// Busy reports whether any call started by a view is still running.
func (a *App) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy > 0
}

// ResetSent reports whether a reset link was requested successfully.
func (a *App) ResetSent() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resetSent
}

// Toasts returns the visible toasts.
func (a *App) Toasts() []Toast { return a.toasts.List() }

// DismissToast removes a toast before it expires.
func (a *App) DismissToast(id string) { a.toasts.Remove(id) }

// Clubs returns the last listing loaded by Explore.
func (a *App) Clubs() []club.Club {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.clubs)
}

// ClubPage returns the club screen's data once loaded.
func (a *App) ClubPage() *ClubPage {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.page == nil {
		return nil
	}
	p := *a.page
	return &p
}

// EventPage returns the event screen's data once loaded.
func (a *App) EventPage() *event.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.eventPage == nil {
		return nil
	}
	e := a.eventPage.Clone()
	return &e
}

// Dashboard returns the home screen's data once loaded.
func (a *App) Dashboard() *DashboardData {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dashboard == nil {
		return nil
	}
	d := *a.dashboard
	return &d
}

// Notifications returns the notifications known to the client, newest first.
func (a *App) Notifications() []notification.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.notifications)
}

// --- Navigation ---

// Navigate shows v; see Router.Navigate.
func (a *App) Navigate(v View) View {
	a.mu.Lock()
	v = a.navigate(v)
	a.mu.Unlock()
	a.changed()
	return v
}

// NavigateTo shows the screen named id; see Router.NavigateTo.
func (a *App) NavigateTo(id ViewID) View {
	a.mu.Lock()
	v := a.navigate(bare(id))
	a.mu.Unlock()
	a.changed()
	return v
}

// Back returns to the logical parent screen.
func (a *App) Back() View {
	a.mu.Lock()
	a.formErr = ""
	v := a.router.Back()
	a.mu.Unlock()
	a.changed()
	return v
}

// --- Calls ---

// begin marks a call as running and returns the generation it started under.
func (a *App) begin() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.busy++
	a.formErr = ""
	return a.router.Generation()
}

func (a *App) end() {
	a.mu.Lock()
	a.busy--
	a.mu.Unlock()
	a.changed()
}

// fail records err as the form message unless the view has moved on.
func (a *App) fail(gen uint64, err error) error {
	a.mu.Lock()
	if a.router.Generation() == gen {
		a.formErr = err.Error()
	}
	a.mu.Unlock()
	a.changed()
	return err
}

func (a *App) userID() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return "", false
	}
	return a.user.ID, true
}

func (a *App) requireUser() (string, error) {
	id, ok := a.userID()
	if !ok {
		a.mu.Lock()
		a.navigate(Auth{})
		a.mu.Unlock()
		a.changed()
		return "", ErrSignInRequired
	}
	return id, nil
}

// SignUp creates an account and starts onboarding.
func (a *App) SignUp(ctx context.Context, name, email, password string) error {
	gen := a.Generation()
	email, name = strings.TrimSpace(email), strings.TrimSpace(name)
	if email == "" || password == "" {
		return a.fail(gen, ErrFillAllFields)
	}
	if name == "" {
		return a.fail(gen, ErrNameRequired)
	}

	gen = a.begin()
	defer a.end()
	sess, err := a.auth.SignUp(ctx, email, password, name)
	if err != nil {
		return a.fail(gen, err)
	}

	a.mu.Lock()
	u := sess.User
	a.user = &u
	a.startOnboarding(PendingUser{ID: sess.User.ID, Name: name, Email: email})
	a.mu.Unlock()
	slog.Info("app_event", "event", "signed_up", "user_id", sess.User.ID)
	return nil
}

// SignIn signs in and routes to onboarding or the dashboard.
func (a *App) SignIn(ctx context.Context, email, password string) error {
	gen := a.Generation()
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return a.fail(gen, ErrFillAllFields)
	}

	gen = a.begin()
	defer a.end()
	sess, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		return a.fail(gen, err)
	}
	a.applySignedIn(sess.User)
	return nil
}

// SignOut ends the session. Local state is cleared even if the call fails.
func (a *App) SignOut(ctx context.Context) error {
	a.begin()
	defer a.end()
	err := a.auth.SignOut(ctx)
	if err != nil {
		slog.Warn("app_event", "event", "sign_out_failed", "error", err)
	}
	a.applySignedOut()
	return err
}

// RequestPasswordReset asks for a reset link.
func (a *App) RequestPasswordReset(ctx context.Context, email string) error {
	gen := a.Generation()
	email = strings.TrimSpace(email)
	if email == "" {
		return a.fail(gen, ErrEmailRequired)
	}

	gen = a.begin()
	defer a.end()
	if err := a.auth.ResetPasswordForEmail(ctx, email); err != nil {
		return a.fail(gen, err)
	}
	a.mu.Lock()
	a.resetSent = true
	a.mu.Unlock()
	return nil
}

// CompleteOnboarding submits the wizard. On success the user is updated, the
// dashboard shown and a welcome toast raised; on failure the wizard stays on
// its last step with an error toast.
func (a *App) CompleteOnboarding(ctx context.Context) (profile.Profile, error) {
	w := a.Wizard()
	if w == nil {
		return profile.Profile{}, ErrSignInRequired
	}

	gen := a.begin()
	defer a.end()
	p, err := w.Submit(ctx)
	if err != nil {
		if !errors.Is(err, ErrStepIncomplete) && !errors.Is(err, ErrSubmitting) {
			a.toasts.Add(ToastError, profileSaveFailed)
		}
		return profile.Profile{}, a.fail(gen, err)
	}

	a.mu.Lock()
	if a.user != nil && a.user.ID == p.ID {
		p.JoinedClubs = a.user.JoinedClubs
	}
	a.user = &p
	a.wizard = nil
	a.navigate(Dashboard{})
	a.mu.Unlock()

	a.toasts.Push(Toast{ID: welcomeToastID, Kind: ToastSuccess, Message: WelcomeMessage})
	return p, nil
}

// Explore shows the listing and loads it. An empty Location defaults to the
// user's city; pass club.All to see every city.
func (a *App) Explore(ctx context.Context, filter client.ClubFilter) ([]club.Club, error) {
	a.mu.Lock()
	if a.router.Current().ID() != ViewExplore && a.router.Current().ID() != ViewDashboard {
		a.navigate(Explore{})
	}
	if filter.Location == "" && a.user != nil {
		filter.Location = a.user.City
	}
	a.mu.Unlock()

	gen := a.begin()
	defer a.end()
	clubs, err := a.data.ListClubs(ctx, filter)
	if err != nil {
		return nil, a.fail(gen, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.router.Generation() != gen {
		return clubs, ErrStale
	}
	a.clubs = clubs
	return clubs, nil
}

// LoadDashboard loads clubs in the user's city and their notifications together.
func (a *App) LoadDashboard(ctx context.Context) (DashboardData, error) {
	a.mu.Lock()
	if a.user == nil {
		a.mu.Unlock()
		return DashboardData{}, ErrSignInRequired
	}
	userID, city := a.user.ID, a.user.City
	a.mu.Unlock()

	gen := a.begin()
	defer a.end()

	var d DashboardData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clubs, err := a.data.ListClubs(gctx, client.ClubFilter{Location: city, Sort: club.SortTrending})
		d.Nearby = clubs
		return err
	})
	g.Go(func() error {
		ns, err := a.data.ListNotifications(gctx, userID)
		d.Notifications = ns
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardData{}, a.fail(gen, err)
	}
	d.Unread = notification.CountUnread(d.Notifications)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.router.Generation() != gen {
		return d, ErrStale
	}
	a.dashboard = &d
	a.notifications = slices.Clone(d.Notifications)
	return d, nil
}

// OpenClub shows a club and loads its page.
func (a *App) OpenClub(ctx context.Context, clubID string) (ClubPage, error) {
	a.mu.Lock()
	a.page = nil
	a.navigate(ClubDetail{ClubID: clubID})
	a.mu.Unlock()
	return a.loadClub(ctx, clubID)
}

func (a *App) loadClub(ctx context.Context, clubID string) (ClubPage, error) {
	gen := a.begin()
	defer a.end()

	var page ClubPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := a.data.GetClub(gctx, clubID)
		page.Club = c
		return err
	})
	g.Go(func() error {
		es, err := a.data.ListEvents(gctx, clubID)
		page.Events = es
		return err
	})
	g.Go(func() error {
		ps, err := a.data.ListPosts(gctx, clubID)
		page.Posts = ps
		return err
	})
	if err := g.Wait(); err != nil {
		return ClubPage{}, a.fail(gen, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user != nil {
		page.IsMember = a.user.HasJoined(clubID)
		page.IsOwner = page.Club.IsOwner(a.user.ID)
	}
	if a.router.Generation() != gen {
		return page, ErrStale
	}
	a.page = &page
	return page, nil
}

// OpenEvent shows an event of the selected club and loads it.
func (a *App) OpenEvent(ctx context.Context, eventID string) (event.Event, error) {
	a.mu.Lock()
	a.eventPage = nil
	a.navigate(EventDetail{ClubID: a.router.SelectedClub(), EventID: eventID})
	a.mu.Unlock()

	gen := a.begin()
	defer a.end()
	e, err := a.data.GetEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, a.fail(gen, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.router.Generation() != gen {
		return e, ErrStale
	}
	a.eventPage = &e
	return e, nil
}

// JoinClub joins the club as the signed-in user.
func (a *App) JoinClub(ctx context.Context, clubID string) (club.Club, error) {
	userID, err := a.requireUser()
	if err != nil {
		return club.Club{}, err
	}
	gen := a.begin()
	defer a.end()
	c, err := a.data.JoinClub(ctx, clubID, userID)
	if err != nil {
		return club.Club{}, a.fail(gen, err)
	}

	a.mu.Lock()
	if a.user != nil && !a.user.HasJoined(clubID) {
		a.user.JoinedClubs = append(a.user.JoinedClubs, clubID)
	}
	a.refreshClub(c, true)
	a.mu.Unlock()
	a.toasts.Add(ToastSuccess, "Joined "+c.Name+"!")
	return c, nil
}

// LeaveClub leaves the club as the signed-in user.
func (a *App) LeaveClub(ctx context.Context, clubID string) (club.Club, error) {
	userID, err := a.requireUser()
	if err != nil {
		return club.Club{}, err
	}
	gen := a.begin()
	defer a.end()
	c, err := a.data.LeaveClub(ctx, clubID, userID)
	if err != nil {
		return club.Club{}, a.fail(gen, err)
	}

	a.mu.Lock()
	if a.user != nil {
		a.user.JoinedClubs = slices.DeleteFunc(a.user.JoinedClubs, func(id string) bool { return id == clubID })
	}
	a.refreshClub(c, false)
	a.mu.Unlock()
	a.toasts.Add(ToastInfo, "You left "+c.Name+".")
	return c, nil
}

// refreshClub writes c into cached views. Must be called with mu held.
func (a *App) refreshClub(c club.Club, member bool) {
	if a.page != nil && a.page.Club.ID == c.ID {
		a.page.Club = c
		a.page.IsMember = member
	}
	for i := range a.clubs {
		if a.clubs[i].ID == c.ID {
			a.clubs[i] = c
		}
	}
}

// RSVP records the user's status for an event.
func (a *App) RSVP(ctx context.Context, eventID, status string) (event.Event, error) {
	userID, err := a.requireUser()
	if err != nil {
		return event.Event{}, err
	}
	gen := a.begin()
	defer a.end()
	e, err := a.data.RSVPEvent(ctx, eventID, userID, status)
	if err != nil {
		return event.Event{}, a.fail(gen, err)
	}

	a.mu.Lock()
	if a.eventPage != nil && a.eventPage.ID == e.ID {
		cp := e.Clone()
		a.eventPage = &cp
	}
	if a.page != nil {
		for i := range a.page.Events {
			if a.page.Events[i].ID == e.ID {
				a.page.Events[i] = e.Clone()
			}
		}
	}
	a.mu.Unlock()
	a.toasts.Add(ToastSuccess, "RSVP updated: "+strings.ReplaceAll(status, "_", " "))
	return e, nil
}

// SuggestClubMission returns generated copy, or false when no copywriter is wired.
func (a *App) SuggestClubMission(ctx context.Context, name, category string) (string, bool) {
	if a.copy == nil {
		return "", false
	}
	return a.copy.ClubMission(ctx, name, category), true
}

// SuggestEventDescription returns generated copy, or false when no copywriter is wired.
func (a *App) SuggestEventDescription(ctx context.Context, title string, tags []string, location string) (string, bool) {
	if a.copy == nil {
		return "", false
	}
	return a.copy.EventDescription(ctx, title, tags, location), true
}

// CreateClub validates the form, creates the club and opens it.
func (a *App) CreateClub(ctx context.Context, f ClubForm) (club.Club, error) {
	gen := a.Generation()
	switch {
	case strings.TrimSpace(f.Name) == "":
		return club.Club{}, a.fail(gen, ErrClubName)
	case !club.IsCategory(f.Category):
		return club.Club{}, a.fail(gen, ErrClubCategory)
	case strings.TrimSpace(f.Location) == "":
		return club.Club{}, a.fail(gen, ErrClubLocation)
	}
	a.mu.Lock()
	if a.user == nil {
		a.mu.Unlock()
		_, err := a.requireUser()
		return club.Club{}, err
	}
	owner := *a.user
	a.mu.Unlock()

	gen = a.begin()
	defer a.end()
	if strings.TrimSpace(f.Description) == "" {
		if text, ok := a.SuggestClubMission(ctx, f.Name, f.Category); ok {
			f.Description = text
		}
	}
	c, err := a.data.CreateClub(ctx, client.ClubInput{
		Name:        f.Name,
		Description: f.Description,
		Category:    f.Category,
		Location:    f.Location,
		Visibility:  f.Visibility,
		Tags:        f.Tags,
		Image:       f.Image,
		OwnerID:     owner.ID,
		FounderName: owner.Name,
		FounderBio:  f.FounderBio,
	})
	if err != nil {
		return club.Club{}, a.fail(gen, err)
	}

	a.mu.Lock()
	if a.user != nil && !a.user.HasJoined(c.ID) {
		a.user.JoinedClubs = append(a.user.JoinedClubs, c.ID)
	}
	a.clubs = slices.Insert(a.clubs, 0, c)
	a.page = &ClubPage{Club: c, IsMember: true, IsOwner: true}
	a.navigate(ClubDetail{ClubID: c.ID})
	a.mu.Unlock()
	a.toasts.Add(ToastSuccess, "Club created!")
	return c, nil
}

// CreateEvent validates the form, creates the event and opens it.
func (a *App) CreateEvent(ctx context.Context, f EventForm) (event.Event, error) {
	a.mu.Lock()
	gen := a.router.Generation()
	if f.ClubID == "" {
		f.ClubID = a.router.SelectedClub()
	}
	a.mu.Unlock()
	switch {
	case f.ClubID == "":
		return event.Event{}, a.fail(gen, ErrEventClub)
	case strings.TrimSpace(f.Title) == "":
		return event.Event{}, a.fail(gen, ErrEventTitle)
	case f.Date.IsZero():
		return event.Event{}, a.fail(gen, ErrEventDate)
	case strings.TrimSpace(f.Location) == "":
		return event.Event{}, a.fail(gen, ErrEventLocation)
	case f.Capacity < 0:
		return event.Event{}, a.fail(gen, ErrNegativeSeats)
	}
	if _, err := a.requireUser(); err != nil {
		return event.Event{}, err
	}

	gen = a.begin()
	defer a.end()
	if strings.TrimSpace(f.Description) == "" {
		var tags []string
		if p := a.ClubPage(); p != nil && p.Club.ID == f.ClubID {
			tags = p.Club.Tags
		}
		if text, ok := a.SuggestEventDescription(ctx, f.Title, tags, f.Location); ok {
			f.Description = text
		}
	}
	e, err := a.data.CreateEvent(ctx, client.EventInput{
		ClubID:      f.ClubID,
		Title:       f.Title,
		Description: f.Description,
		Date:        f.Date,
		Location:    f.Location,
		Capacity:    f.Capacity,
		Image:       f.Image,
	})
	if err != nil {
		return event.Event{}, a.fail(gen, err)
	}

	a.mu.Lock()
	if a.page != nil && a.page.Club.ID == e.ClubID {
		a.page.Events = append(a.page.Events, e.Clone())
	}
	cp := e.Clone()
	a.eventPage = &cp
	a.navigate(EventDetail{ClubID: e.ClubID, EventID: e.ID})
	a.mu.Unlock()
	a.toasts.Add(ToastSuccess, "Event created!")
	return e, nil
}
