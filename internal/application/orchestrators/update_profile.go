package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"connect/internal/adapters/ws"
	"connect/internal/domain/profile"
)

// ProfileStoreForUpdate defines the store interface needed by UpdateProfile.
type ProfileStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// UpdateProfileInput carries input for the update profile orchestrator.
type UpdateProfileInput struct {
	ActorID   string
	ProfileID string
	Update    profile.Update
}

// UpdateProfileDeps holds dependencies for UpdateProfile.
type UpdateProfileDeps struct {
	ProfileStore ProfileStoreForUpdate
	Publisher    ws.Publisher
	Now          func() time.Time
}

// ExecuteUpdateProfile applies a partial edit to the caller's own profile.
// Onboarding completes through this path by setting city, interests and avatar.
// PRE: ActorID == ProfileID
// POST: profile saved; profile_updated published to the owner's connections
// INVARIANT: a supplied interest list holds at least profile.MinInterests distinct categories
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps UpdateProfileDeps) (profile.Profile, error) {
	if input.ActorID == "" || input.ActorID != input.ProfileID {
		return profile.Profile{}, ErrForbidden
	}

	p, err := deps.ProfileStore.GetByID(ctx, input.ProfileID)
	if err != nil {
		return profile.Profile{}, err
	}
	wasOnboarding := p.NeedsOnboarding()

	p.Apply(input.Update, deps.Now())
	if input.Update.Interests != nil && len(p.Interests) < profile.MinInterests {
		return profile.Profile{}, profile.ErrNotEnoughInterests
	}
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return profile.Profile{}, err
	}

	publish(deps.Publisher, p.ID, ws.OpProfileUpdated, map[string]any{
		"id":        p.ID,
		"name":      p.Name,
		"avatar":    p.Avatar,
		"city":      p.City,
		"interests": p.Interests,
	})
	if wasOnboarding && !p.NeedsOnboarding() {
		slog.Info("profile_event", "event", "onboarding_completed", "profile_id", p.ID, "city", p.City)
	} else {
		slog.Info("profile_event", "event", "profile_updated", "profile_id", p.ID)
	}
	return p, nil
}
