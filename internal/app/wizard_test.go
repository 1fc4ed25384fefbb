package app

import (
	"context"
	"errors"
	"slices"
	"testing"

	"connect/internal/client"
	"connect/internal/domain/profile"
)

type fakeUpdater struct {
	calls int
	got   client.ProfileUpdate
	reply profile.Profile
	err   error
}

func (f *fakeUpdater) UpdateProfile(_ context.Context, id string, u client.ProfileUpdate) (profile.Profile, error) {
	f.calls++
	f.got = u
	if f.err != nil {
		return profile.Profile{}, f.err
	}
	p := f.reply
	p.ID = id
	if u.City != nil {
		p.City = *u.City
	}
	if u.Interests != nil {
		p.Interests = *u.Interests
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	return p, nil
}

func wizardAtAvatar(t *testing.T, up ProfileUpdater) *Wizard {
	t.Helper()
	w := NewWizard(PendingUser{ID: "u1", Name: "Ava", Email: "ava@x.com"}, up)
	w.SetCity(" Austin ")
	if err := w.Next(); err != nil {
		t.Fatalf("Next from city: %v", err)
	}
	for _, i := range []string{"Tech", "Music", "Art"} {
		w.ToggleInterest(i)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("Next from interests: %v", err)
	}
	return w
}

func TestWizard_CityRequired(t *testing.T) {
	w := NewWizard(PendingUser{ID: "u1"}, &fakeUpdater{})
	if err := w.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("Next without city = %v", err)
	}
	w.SetCity("   ")
	if err := w.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("Next with blank city = %v", err)
	}
	if w.Step() != StepCity {
		t.Errorf("Step = %s", w.Step())
	}
}

func TestWizard_InterestMinimum(t *testing.T) {
	w := NewWizard(PendingUser{ID: "u1"}, &fakeUpdater{})
	w.SetCity("Austin")
	_ = w.Next()

	w.ToggleInterest("Tech")
	w.ToggleInterest("Music")
	if err := w.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("Next with 2 interests = %v", err)
	}
	if w.Step() != StepInterests {
		t.Fatalf("Step = %s, want interests", w.Step())
	}

	w.ToggleInterest("Art")
	if err := w.Next(); err != nil {
		t.Fatalf("Next with 3 interests: %v", err)
	}
	if w.Step() != StepAvatar {
		t.Errorf("Step = %s, want avatar", w.Step())
	}
}

func TestWizard_ToggleRemoves(t *testing.T) {
	w := NewWizard(PendingUser{}, &fakeUpdater{})
	w.ToggleInterest("Tech")
	w.ToggleInterest("Art")
	w.ToggleInterest("Tech")
	if got := w.Interests(); !slices.Equal(got, []string{"Art"}) {
		t.Errorf("Interests = %v", got)
	}
}

func TestWizard_BackKeepsChoices(t *testing.T) {
	w := wizardAtAvatar(t, &fakeUpdater{})
	w.Back()
	w.Back()
	w.Back()
	if w.Step() != StepCity {
		t.Fatalf("Step = %s", w.Step())
	}
	if w.City() != "Austin" {
		t.Errorf("City = %q", w.City())
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("interests lost going back: %v", err)
	}
	if got := w.Interests(); !slices.Equal(got, []string{"Tech", "Music", "Art"}) {
		t.Errorf("Interests = %v", got)
	}
	if err := w.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Errorf("Next past avatar = %v", err)
	}
}

func TestWizard_ShuffleAvatar(t *testing.T) {
	w := NewWizard(PendingUser{}, &fakeUpdater{})
	seeds := []string{"a", "b"}
	w.newSeed = func() string {
		s := seeds[0]
		seeds = seeds[1:]
		return s
	}
	first := w.ShuffleAvatar()
	second := w.ShuffleAvatar()
	if first != profile.AvatarURL("a") || second != profile.AvatarURL("b") || w.Avatar() != second {
		t.Errorf("avatars %q then %q, current %q", first, second, w.Avatar())
	}
}

func TestWizard_SubmitBeforeLastStep(t *testing.T) {
	up := &fakeUpdater{}
	w := NewWizard(PendingUser{ID: "u1"}, up)
	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("Submit = %v", err)
	}
	if up.calls != 0 {
		t.Errorf("UpdateProfile called %d times", up.calls)
	}
}

func TestWizard_Submit(t *testing.T) {
	up := &fakeUpdater{}
	w := wizardAtAvatar(t, up)
	avatar := w.Avatar()

	p, err := w.Submit(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "u1" || p.Name != "Ava" || p.Email != "ava@x.com" {
		t.Errorf("identity not filled from pending: %+v", p)
	}
	if p.City != "Austin" || !slices.Equal(p.Interests, []string{"Tech", "Music", "Art"}) || p.Avatar != avatar {
		t.Errorf("profile = %+v", p)
	}
	if up.got.Name != nil {
		t.Error("wizard should not send a name")
	}
	if w.Saving() || w.Err() != nil {
		t.Errorf("Saving=%v Err=%v", w.Saving(), w.Err())
	}
}

func TestWizard_SubmitFailure(t *testing.T) {
	boom := errors.New("profile service down")
	up := &fakeUpdater{err: boom}
	w := wizardAtAvatar(t, up)

	if _, err := w.Submit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Submit = %v", err)
	}
	if w.Step() != StepAvatar {
		t.Errorf("Step = %s after failure", w.Step())
	}
	if !errors.Is(w.Err(), boom) {
		t.Errorf("Err = %v", w.Err())
	}
	if w.Saving() {
		t.Error("still saving after failure")
	}

	up.err = nil
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if w.Err() != nil {
		t.Errorf("Err not cleared by retry: %v", w.Err())
	}
}
