package orchestrators

import (
	"context"
	"errors"
	"testing"

	"connect/internal/adapters/genai"
	"connect/internal/adapters/storage"
	"connect/internal/domain/club"
	"connect/internal/domain/notification"
)

func TestExecuteCreateClub(t *testing.T) {
	clubs := newMockClubStore()
	c, err := ExecuteCreateClub(context.Background(), CreateClubInput{
		OwnerID:  "u-ava",
		Name:     " Byte Club ",
		Category: "Tech",
		Location: "Austin",
		Tags:     []string{"#Coding", "coding", "AI"},
	}, CreateClubDeps{
		ClubStore:    clubs,
		ProfileStore: newMockProfileStore(ava()),
		Copywriter:   genai.StaticCopywriter{},
		GenerateID:   func() string { return "c1700000000000000000" },
		Now:          testNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Byte Club" || c.MemberCount != 1 || c.Visibility != club.VisibilityPublic {
		t.Errorf("club = %+v", c)
	}
	if c.FounderName != "Ava" || c.OwnerID != "u-ava" {
		t.Errorf("founder = %s/%s", c.FounderName, c.OwnerID)
	}
	if len(c.Tags) != 2 {
		t.Errorf("tags = %v, want normalized pair", c.Tags)
	}
	if c.Description != genai.NoKeyClubMission {
		t.Errorf("description = %q, want copywriter fallback", c.Description)
	}
	if ok, _ := clubs.IsMember(context.Background(), c.ID, "u-ava"); !ok {
		t.Error("owner should be a member")
	}
	if clubs.clubs[c.ID].MemberCount != 1 {
		t.Errorf("stored member count = %d", clubs.clubs[c.ID].MemberCount)
	}
}

func TestExecuteCreateClub_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateClubInput
		wantErr error
	}{
		{"no name", CreateClubInput{OwnerID: "u-ava", Category: "Tech", Location: "Austin"}, club.ErrEmptyName},
		{"bad category", CreateClubInput{OwnerID: "u-ava", Name: "X", Category: "Knitting", Location: "Austin"}, club.ErrInvalidCategory},
		{"no location", CreateClubInput{OwnerID: "u-ava", Name: "X", Category: "Tech"}, club.ErrEmptyLocation},
		{"unknown owner", CreateClubInput{OwnerID: "ghost", Name: "X", Category: "Tech", Location: "Austin"}, storage.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clubs := newMockClubStore()
			_, err := ExecuteCreateClub(context.Background(), tt.input, CreateClubDeps{
				ClubStore: clubs, ProfileStore: newMockProfileStore(ava()), GenerateID: fixedClubID, Now: testNow,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if len(clubs.clubs) != 0 {
				t.Error("nothing should be saved")
			}
		})
	}
}

func fixedClubID() string { return "c9" }

func joinDeps(clubs *mockClubStore, ns *mockNotificationStore, pub *recordingPublisher) JoinClubDeps {
	return JoinClubDeps{
		ClubStore:         clubs,
		ProfileStore:      newMockProfileStore(ava(), ben()),
		NotificationStore: ns,
		Publisher:         pub,
		GenerateID:        sequentialIDs("n"),
		Now:               testNow,
	}
}

// TestExecuteJoinClub_Idempotent tests that repeated joins count once and notify the owner once.
func TestExecuteJoinClub_Idempotent(t *testing.T) {
	c := byteClub()
	c.MemberCount = 1
	clubs := newMockClubStore(c)
	clubs.members["c1"] = []string{"u-ava"}
	ns := newMockNotificationStore()
	pub := &recordingPublisher{}
	deps := joinDeps(clubs, ns, pub)
	in := MembershipInput{UserID: "u-ben", ClubID: "c1"}

	for i := 0; i < 2; i++ {
		got, err := ExecuteJoinClub(context.Background(), in, deps)
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		if got.MemberCount != 2 {
			t.Errorf("join %d: MemberCount = %d, want 2", i, got.MemberCount)
		}
	}

	all := ns.all()
	if len(all) != 1 {
		t.Fatalf("notifications = %d, want 1", len(all))
	}
	n := all[0]
	if n.UserID != "u-ava" || n.Type != notification.TypeClubJoin || n.Message != "Ben joined Byte Club" || n.View != notification.ViewClub {
		t.Errorf("notification = %+v", n)
	}
	if len(pub.ops("u-ava")) != 1 {
		t.Errorf("owner pushes = %v", pub.ops("u-ava"))
	}
}

func TestExecuteJoinClub_UnknownClub(t *testing.T) {
	_, err := ExecuteJoinClub(context.Background(), MembershipInput{UserID: "u-ben", ClubID: "nope"},
		joinDeps(newMockClubStore(), newMockNotificationStore(), nil))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestExecuteLeaveClub_NeverNegative tests that leaving twice leaves the count at its floor.
func TestExecuteLeaveClub_NeverNegative(t *testing.T) {
	c := byteClub()
	c.MemberCount = 1
	clubs := newMockClubStore(c)
	clubs.members["c1"] = []string{"u-ben"}
	deps := LeaveClubDeps{ClubStore: clubs}
	in := MembershipInput{UserID: "u-ben", ClubID: "c1"}

	for i := 0; i < 2; i++ {
		got, err := ExecuteLeaveClub(context.Background(), in, deps)
		if err != nil {
			t.Fatalf("leave %d: %v", i, err)
		}
		if got.MemberCount != 0 {
			t.Errorf("leave %d: MemberCount = %d, want 0", i, got.MemberCount)
		}
	}
}

func TestExecuteLeaveClub_Owner(t *testing.T) {
	clubs := newMockClubStore(byteClub())
	_, err := ExecuteLeaveClub(context.Background(), MembershipInput{UserID: "u-ava", ClubID: "c1"}, LeaveClubDeps{ClubStore: clubs})
	if !errors.Is(err, ErrOwnerCannotLeave) {
		t.Errorf("err = %v, want ErrOwnerCannotLeave", err)
	}
}

func TestExecuteDeleteClub(t *testing.T) {
	clubs := newMockClubStore(byteClub())
	deps := DeleteClubDeps{ClubStore: clubs}

	if err := ExecuteDeleteClub(context.Background(), MembershipInput{UserID: "u-ben", ClubID: "c1"}, deps); !errors.Is(err, club.ErrNotOwner) {
		t.Errorf("non-owner err = %v, want ErrNotOwner", err)
	}
	if err := ExecuteDeleteClub(context.Background(), MembershipInput{UserID: "u-ava", ClubID: "c1"}, deps); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := clubs.clubs["c1"]; ok {
		t.Error("club should be gone")
	}
}
