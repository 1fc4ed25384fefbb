// Package app is the client core: the current user, which screen is showing,
// the toast queue and the onboarding wizard, plus the callbacks views use to
// reach the data and auth collaborators.
package app

// ViewID names a screen.
type ViewID string

// Screens.
const (
	ViewLanding        ViewID = "LANDING"
	ViewAuth           ViewID = "AUTH"
	ViewSignup         ViewID = "SIGNUP"
	ViewForgotPassword ViewID = "FORGOT_PASSWORD"
	ViewOnboarding     ViewID = "ONBOARDING"
	ViewDashboard      ViewID = "DASHBOARD"
	ViewExplore        ViewID = "EXPLORE"
	ViewClubDetail     ViewID = "CLUB_DETAIL"
	ViewEventDetail    ViewID = "EVENT_DETAIL"
	ViewCreateClub     ViewID = "CREATE_CLUB"
	ViewCreateEvent    ViewID = "CREATE_EVENT"
	ViewProfile        ViewID = "PROFILE"
)

// View is one screen together with the selection it needs. The set of
// implementations is closed; switch on the concrete type to render.
type View interface {
	ID() ViewID
	view()
}

// PendingUser is what onboarding knows about a freshly signed-up account.
type PendingUser struct {
	ID    string
	Name  string
	Email string
}

type (
	Landing        struct{}
	Auth           struct{}
	Signup         struct{}
	ForgotPassword struct{}
	Dashboard      struct{}
	Explore        struct{}
	CreateClub     struct{}
	Profile        struct{}

	Onboarding struct {
		Pending PendingUser
	}
	ClubDetail struct {
		ClubID string
	}
	EventDetail struct {
		ClubID  string
		EventID string
	}
	CreateEvent struct {
		ClubID string
	}
)

func (Landing) ID() ViewID        { return ViewLanding }
func (Auth) ID() ViewID           { return ViewAuth }
func (Signup) ID() ViewID         { return ViewSignup }
func (ForgotPassword) ID() ViewID { return ViewForgotPassword }
func (Onboarding) ID() ViewID     { return ViewOnboarding }
func (Dashboard) ID() ViewID      { return ViewDashboard }
func (Explore) ID() ViewID        { return ViewExplore }
func (ClubDetail) ID() ViewID     { return ViewClubDetail }
func (EventDetail) ID() ViewID    { return ViewEventDetail }
func (CreateClub) ID() ViewID     { return ViewCreateClub }
func (CreateEvent) ID() ViewID    { return ViewCreateEvent }
func (Profile) ID() ViewID        { return ViewProfile }

func (Landing) view()        {}
func (Auth) view()           {}
func (Signup) view()         {}
func (ForgotPassword) view() {}
func (Onboarding) view()     {}
func (Dashboard) view()      {}
func (Explore) view()        {}
func (ClubDetail) view()     {}
func (EventDetail) view()    {}
func (CreateClub) view()     {}
func (CreateEvent) view()    {}
func (Profile) view()        {}
