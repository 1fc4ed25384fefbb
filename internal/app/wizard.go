package app

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"connect/internal/client"
	"connect/internal/domain/profile"
)

// Step is a position in the onboarding wizard.
type Step int

// Wizard steps, in order.
const (
	StepCity Step = iota
	StepInterests
	StepAvatar
)

func (s Step) String() string {
	switch s {
	case StepCity:
		return "city"
	case StepInterests:
		return "interests"
	case StepAvatar:
		return "avatar"
	}
	return "unknown"
}

// ErrStepIncomplete is returned when the current step's requirement is unmet.
var ErrStepIncomplete = errors.New("finish this step first")

// ErrSubmitting is returned by Submit while an earlier Submit is in flight.
var ErrSubmitting = errors.New("already saving")

// ProfileUpdater is the slice of client.Auth the wizard writes through.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, id string, u client.ProfileUpdate) (profile.Profile, error)
}

// Wizard collects city, interests and avatar for a new account.
// Moving forward requires the current step to be complete; moving back keeps
// every choice. Safe for concurrent use.
type Wizard struct {
	pending PendingUser
	updater ProfileUpdater
	newSeed func() string

	mu        sync.Mutex
	step      Step
	city      string
	interests []string
	avatar    string
	saving    bool
	err       error
}

// NewWizard starts onboarding for p at StepCity with a random avatar.
func NewWizard(p PendingUser, updater ProfileUpdater) *Wizard {
	w := &Wizard{pending: p, updater: updater, newSeed: uuid.NewString}
	w.avatar = profile.AvatarURL(w.newSeed())
	return w
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) City() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.city
}

func (w *Wizard) Interests() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.interests)
}

func (w *Wizard) Avatar() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.avatar
}

// Saving reports whether Submit is in flight.
func (w *Wizard) Saving() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.saving
}

// Err returns the error from the last failed Submit, or nil.
func (w *Wizard) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Wizard) SetCity(city string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.city = strings.TrimSpace(city)
}

// ToggleInterest adds interest or removes it if already chosen.
func (w *Wizard) ToggleInterest(interest string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := slices.Index(w.interests, interest); i >= 0 {
		w.interests = slices.Delete(w.interests, i, i+1)
		return
	}
	w.interests = append(w.interests, interest)
}

// ShuffleAvatar picks a new random placeholder avatar.
func (w *Wizard) ShuffleAvatar() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.avatar = profile.AvatarURL(w.newSeed())
	return w.avatar
}

// complete reports whether the current step may be left going forward.
func (w *Wizard) complete() bool {
	switch w.step {
	case StepCity:
		return w.city != ""
	case StepInterests:
		return len(w.interests) >= profile.MinInterests
	case StepAvatar:
		return w.avatar != ""
	}
	return false
}

// Next advances one step.
// POST: on ErrStepIncomplete the step is unchanged
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepAvatar || !w.complete() {
		return ErrStepIncomplete
	}
	w.step++
	return nil
}

// Back moves one step back; it does nothing on the first step.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepCity {
		w.step--
	}
}

// Submit saves the choices to the profile and returns the completed user.
// On failure the wizard stays on StepAvatar and Err reports why.
// PRE: Step() == StepAvatar
func (w *Wizard) Submit(ctx context.Context) (profile.Profile, error) {
	w.mu.Lock()
	if w.step != StepAvatar || w.city == "" || len(w.interests) < profile.MinInterests {
		w.mu.Unlock()
		return profile.Profile{}, ErrStepIncomplete
	}
	if w.saving {
		w.mu.Unlock()
		return profile.Profile{}, ErrSubmitting
	}
	w.saving = true
	w.err = nil
	city, avatar := w.city, w.avatar
	interests := slices.Clone(w.interests)
	w.mu.Unlock()

	p, err := w.updater.UpdateProfile(ctx, w.pending.ID, client.ProfileUpdate{
		City:      &city,
		Interests: &interests,
		Avatar:    &avatar,
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	w.saving = false
	if err != nil {
		w.err = err
		slog.Warn("onboarding_event", "event", "profile_update_failed", "user_id", w.pending.ID, "error", err)
		return profile.Profile{}, err
	}

	// Fill anything the profile service left out from what onboarding knows.
	if p.ID == "" {
		p.ID = w.pending.ID
	}
	if p.Name == "" {
		p.Name = w.pending.Name
	}
	if p.Email == "" {
		p.Email = w.pending.Email
	}
	slog.Info("onboarding_event", "event", "completed", "user_id", p.ID, "city", p.City)
	return p, nil
}
