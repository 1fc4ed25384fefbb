package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connect/internal/adapters/genai"
	"connect/internal/adapters/ws"
	"connect/internal/domain/club"
	"connect/internal/domain/notification"
)

// ErrOwnerCannotLeave is returned when an owner tries to leave instead of deleting the club.
var ErrOwnerCannotLeave = errors.New("the owner cannot leave their own club")

// ClubStoreForOrchestrator defines the club store interface needed by club orchestrators.
type ClubStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (club.Club, error)
	Save(ctx context.Context, c club.Club) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, clubID, userID string, at time.Time) (bool, error)
	RemoveMember(ctx context.Context, clubID, userID string) (bool, error)
}

// --- Create Club ---

// CreateClubInput carries input for the create club orchestrator.
type CreateClubInput struct {
	OwnerID     string
	Name        string
	Description string
	Category    string
	Location    string
	Visibility  string
	Tags        []string
	Image       string
	CoverImage  string
	FounderBio  string
}

// CreateClubDeps holds dependencies for CreateClub.
// Copywriter is optional; when set it fills in a missing description.
type CreateClubDeps struct {
	ClubStore    ClubStoreForOrchestrator
	ProfileStore ProfileReader
	Copywriter   genai.Copywriter
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteCreateClub creates a club owned and joined by its creator.
// PRE: name, category and location are set; category is one of club.Categories
// POST: club persisted with MemberCount == 1; owner is a member
func ExecuteCreateClub(ctx context.Context, input CreateClubInput, deps CreateClubDeps) (club.Club, error) {
	owner, err := deps.ProfileStore.GetByID(ctx, input.OwnerID)
	if err != nil {
		return club.Club{}, err
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = club.VisibilityPublic
	}

	now := deps.Now()
	c := club.Club{
		ID:          deps.GenerateID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Image:       input.Image,
		CoverImage:  input.CoverImage,
		Tags:        club.NormalizeTags(input.Tags),
		Visibility:  visibility,
		Location:    strings.TrimSpace(input.Location),
		OwnerID:     owner.ID,
		FounderName: owner.Name,
		FounderBio:  input.FounderBio,
		CreatedAt:   now,
	}
	if c.Image == "" {
		c.Image = "https://picsum.photos/seed/" + c.ID + "/800/600"
	}
	if c.CoverImage == "" {
		c.CoverImage = "https://picsum.photos/seed/" + c.ID + "/1600/600"
	}
	if err := c.Validate(); err != nil {
		return club.Club{}, err
	}
	if c.Description == "" && deps.Copywriter != nil {
		c.Description = deps.Copywriter.ClubMission(ctx, c.Name, c.Category)
	}

	if err := deps.ClubStore.Save(ctx, c); err != nil {
		return club.Club{}, err
	}
	if _, err := deps.ClubStore.AddMember(ctx, c.ID, owner.ID, now); err != nil {
		return club.Club{}, fmt.Errorf("join owner to club %s: %w", c.ID, err)
	}
	c.MemberCount = 1

	slog.Info("club_event", "event", "club_created", "club_id", c.ID, "owner_id", owner.ID, "category", c.Category)
	return c, nil
}

// --- Join / Leave ---

// MembershipInput identifies a user and a club.
type MembershipInput struct {
	UserID string
	ClubID string
}

// JoinClubDeps holds dependencies for JoinClub.
type JoinClubDeps struct {
	ClubStore         ClubStoreForOrchestrator
	ProfileStore      ProfileReader
	NotificationStore NotificationWriter
	Publisher         ws.Publisher
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteJoinClub adds the user to the club.
// PRE: club exists
// POST: repeated joins are no-ops; the owner is notified of each new member
func ExecuteJoinClub(ctx context.Context, input MembershipInput, deps JoinClubDeps) (club.Club, error) {
	if input.UserID == "" {
		return club.Club{}, ErrForbidden
	}
	now := deps.Now()
	changed, err := deps.ClubStore.AddMember(ctx, input.ClubID, input.UserID, now)
	if err != nil {
		return club.Club{}, err
	}
	c, err := deps.ClubStore.GetByID(ctx, input.ClubID)
	if err != nil {
		return club.Club{}, err
	}
	if !changed {
		return c, nil
	}

	if !c.IsOwner(input.UserID) {
		name := "Someone"
		if p, err := deps.ProfileStore.GetByID(ctx, input.UserID); err == nil {
			name = p.Name
		}
		ns := fanOut([]string{c.OwnerID}, input.UserID, deps.GenerateID, notification.Notification{
			Type:      notification.TypeClubJoin,
			Message:   fmt.Sprintf("%s joined %s", name, c.Name),
			LinkID:    c.ID,
			View:      notification.ViewClub,
			CreatedAt: now,
		})
		if err := notify(ctx, deps.NotificationStore, deps.Publisher, ns); err != nil {
			slog.Error("club_event", "event", "join_notify_failed", "club_id", c.ID, "error", err)
		}
	}

	slog.Info("club_event", "event", "club_joined", "club_id", c.ID, "user_id", input.UserID, "member_count", c.MemberCount)
	return c, nil
}

// LeaveClubDeps holds dependencies for LeaveClub.
type LeaveClubDeps struct {
	ClubStore ClubStoreForOrchestrator
}

// ExecuteLeaveClub removes the user from the club.
// PRE: club exists; user is not the owner
// POST: MemberCount >= 0; leaving twice is a no-op
func ExecuteLeaveClub(ctx context.Context, input MembershipInput, deps LeaveClubDeps) (club.Club, error) {
	c, err := deps.ClubStore.GetByID(ctx, input.ClubID)
	if err != nil {
		return club.Club{}, err
	}
	if c.IsOwner(input.UserID) {
		return club.Club{}, ErrOwnerCannotLeave
	}
	changed, err := deps.ClubStore.RemoveMember(ctx, input.ClubID, input.UserID)
	if err != nil {
		return club.Club{}, err
	}
	if !changed {
		return c, nil
	}
	c, err = deps.ClubStore.GetByID(ctx, input.ClubID)
	if err != nil {
		return club.Club{}, err
	}

	slog.Info("club_event", "event", "club_left", "club_id", c.ID, "user_id", input.UserID, "member_count", c.MemberCount)
	return c, nil
}

// --- Delete ---

// DeleteClubDeps holds dependencies for DeleteClub.
type DeleteClubDeps struct {
	ClubStore ClubStoreForOrchestrator
}

// ExecuteDeleteClub removes a club with its events, posts and memberships.
// PRE: actor owns the club
// POST: club no longer exists
func ExecuteDeleteClub(ctx context.Context, input MembershipInput, deps DeleteClubDeps) error {
	c, err := deps.ClubStore.GetByID(ctx, input.ClubID)
	if err != nil {
		return err
	}
	if !c.IsOwner(input.UserID) {
		return club.ErrNotOwner
	}
	if err := deps.ClubStore.Delete(ctx, c.ID); err != nil {
		return err
	}
	slog.Info("club_event", "event", "club_deleted", "club_id", c.ID, "owner_id", input.UserID)
	return nil
}
