package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"connect/internal/application/sample"
	"connect/internal/domain/account"
	"connect/internal/domain/club"
	"connect/internal/domain/event"
	"connect/internal/domain/profile"
)

// ClubStoreForSeed defines the store interface needed by SeedSampleData.
type ClubStoreForSeed interface {
	List(ctx context.Context) ([]club.Club, error)
	Save(ctx context.Context, c club.Club) error
}

// SeedSampleDataDeps holds dependencies for SeedSampleData.
type SeedSampleDataDeps struct {
	AccountStore interface {
		Save(ctx context.Context, a account.Account) error
	}
	ProfileStore ProfileStoreForSignUp
	ClubStore    ClubStoreForSeed
	EventStore   interface {
		Save(ctx context.Context, e event.Event) error
	}
	PostStore PostWriter
	Now       func() time.Time
}

// ExecuteSeedSampleData loads the starter clubs, events and posts into an empty database.
// The sample host account has no password and cannot sign in.
// POST: no-op when any club exists
func ExecuteSeedSampleData(ctx context.Context, deps SeedSampleDataDeps) error {
	existing, err := deps.ClubStore.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := deps.Now()
	if err := deps.AccountStore.Save(ctx, account.Account{
		ID:        sample.HostID,
		Email:     sample.HostEmail,
		CreatedAt: now,
	}); err != nil {
		return err
	}
	if err := deps.ProfileStore.Save(ctx, profile.Profile{
		ID:        sample.HostID,
		Name:      sample.HostName,
		Email:     sample.HostEmail,
		Avatar:    profile.AvatarURL(sample.HostID),
		City:      "Austin",
		CreatedAt: now,
	}); err != nil {
		return err
	}

	clubs := sample.Clubs(now)
	for _, c := range clubs {
		if err := deps.ClubStore.Save(ctx, c); err != nil {
			return err
		}
	}
	events := sample.Events(now)
	for _, e := range events {
		if err := deps.EventStore.Save(ctx, e); err != nil {
			return err
		}
	}
	posts := sample.Posts(now)
	for _, p := range posts {
		if err := deps.PostStore.Save(ctx, p); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "sample_data_seeded", "clubs", len(clubs), "events", len(events), "posts", len(posts))
	return nil
}
