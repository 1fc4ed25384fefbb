package app

// maxHistory bounds the back stack.
const maxHistory = 50

// Router holds the current view and the selection it was reached with.
// It is not safe for concurrent use; App serialises access.
// INVARIANT: the current view always carries the selection it needs
type Router struct {
	current       View
	history       []View
	selectedClub  string
	selectedEvent string
	pending       *PendingUser
	gen           uint64
}

// NewRouter starts on Landing.
func NewRouter() *Router {
	return &Router{current: Landing{}}
}

// Current returns the view to render.
func (r *Router) Current() View { return r.current }

// Generation changes on every transition. Work started under one generation
// must not touch view state once the generation has moved on.
func (r *Router) Generation() uint64 { return r.gen }

// SelectedClub returns the club most recently opened, or "".
func (r *Router) SelectedClub() string { return r.selectedClub }

// SelectedEvent returns the event most recently opened, or "".
func (r *Router) SelectedEvent() string { return r.selectedEvent }

// Pending returns the signed-up user awaiting onboarding, or nil.
func (r *Router) Pending() *PendingUser {
	if r.pending == nil {
		return nil
	}
	p := *r.pending
	return &p
}

// SetPending records the user onboarding will complete.
func (r *Router) SetPending(p PendingUser) { r.pending = &p }

// Navigate shows v, filling a missing selection from the current one and
// falling back when none is available.
// POST: Current() is consistent; Generation() incremented
func (r *Router) Navigate(v View) View {
	v = r.resolve(v)
	if r.current != nil && r.current != v {
		r.history = append(r.history, r.current)
		if len(r.history) > maxHistory {
			r.history = r.history[len(r.history)-maxHistory:]
		}
	}
	r.set(v)
	return v
}

// NavigateTo shows the screen named id using the current selection.
// Unknown identifiers land on Landing.
func (r *Router) NavigateTo(id ViewID) View {
	return r.Navigate(bare(id))
}

// Back returns to the logical parent: club pages go to Explore, event pages
// and the create-event form to their club, anything else to the previous view.
// A parent already on the back stack is unwound to, so the stack never holds
// screens above the one being shown.
func (r *Router) Back() View {
	var v View
	switch cur := r.current.(type) {
	case ClubDetail:
		v = Explore{}
	case EventDetail:
		v = ClubDetail{ClubID: cur.ClubID}
	case CreateEvent:
		v = ClubDetail{ClubID: cur.ClubID}
	default:
		if n := len(r.history); n > 0 {
			v = r.history[n-1]
			r.history = r.history[:n-1]
		} else {
			v = Landing{}
		}
	}
	v = r.resolve(v)
	r.unwindTo(v)
	r.set(v)
	return v
}

// unwindTo drops the most recent history entry equal to v and everything
// after it. The stack is left alone when v is not on it.
func (r *Router) unwindTo(v View) {
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i] == v {
			r.history = r.history[:i]
			return
		}
	}
}

// Reset clears the selection and history and shows Landing.
func (r *Router) Reset() {
	r.history = nil
	r.selectedClub = ""
	r.selectedEvent = ""
	r.pending = nil
	r.set(Landing{})
}

func (r *Router) set(v View) {
	switch v := v.(type) {
	case ClubDetail:
		if v.ClubID != r.selectedClub {
			r.selectedEvent = ""
		}
		r.selectedClub = v.ClubID
	case EventDetail:
		r.selectedClub = v.ClubID
		r.selectedEvent = v.EventID
	case CreateEvent:
		r.selectedClub = v.ClubID
	case Onboarding:
		p := v.Pending
		r.pending = &p
	}
	r.current = v
	r.gen++
}

// resolve fills in or replaces an incomplete view.
func (r *Router) resolve(v View) View {
	switch v := v.(type) {
	case nil:
		return Landing{}
	case ClubDetail:
		if v.ClubID != "" {
			return v
		}
		if r.selectedClub != "" {
			return ClubDetail{ClubID: r.selectedClub}
		}
		return Explore{}
	case EventDetail:
		if v.EventID == "" {
			v.EventID = r.selectedEvent
			if v.ClubID == "" {
				v.ClubID = r.selectedClub
			}
		}
		if v.EventID == "" {
			return r.resolve(ClubDetail{ClubID: v.ClubID})
		}
		if v.ClubID == "" && v.EventID == r.selectedEvent {
			v.ClubID = r.selectedClub
		}
		return v
	case CreateEvent:
		if v.ClubID == "" {
			v.ClubID = r.selectedClub
		}
		if v.ClubID == "" {
			return Explore{}
		}
		return v
	case Onboarding:
		if v.Pending.ID != "" {
			return v
		}
		if r.pending != nil {
			return Onboarding{Pending: *r.pending}
		}
		return Landing{}
	}
	return v
}

// bare maps an identifier to a view with no selection.
func bare(id ViewID) View {
	switch id {
	case ViewLanding:
		return Landing{}
	case ViewAuth:
		return Auth{}
	case ViewSignup:
		return Signup{}
	case ViewForgotPassword:
		return ForgotPassword{}
	case ViewOnboarding:
		return Onboarding{}
	case ViewDashboard:
		return Dashboard{}
	case ViewExplore:
		return Explore{}
	case ViewClubDetail:
		return ClubDetail{}
	case ViewEventDetail:
		return EventDetail{}
	case ViewCreateClub:
		return CreateClub{}
	case ViewCreateEvent:
		return CreateEvent{}
	case ViewProfile:
		return Profile{}
	}
	return Landing{}
}
