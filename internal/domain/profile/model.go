package profile

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"connect/internal/domain/club"
)

// MinInterests is the number of interests onboarding requires.
const MinInterests = 3

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
	MaxCityLength = 100
)

// TopCities are offered as quick picks during onboarding.
var TopCities = []string{
	"New York", "San Francisco", "Austin", "London", "Berlin",
	"Tokyo", "Toronto", "Sydney", "Paris", "Singapore",
}

// Domain errors
var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrNameTooLong        = errors.New("name cannot exceed 100 characters")
	ErrCityTooLong        = errors.New("city cannot exceed 100 characters")
	ErrInvalidInterest    = errors.New("interest is not a known category")
	ErrNotEnoughInterests = errors.New("pick at least 3 interests")
)

// Profile is the public face of an account.
// ID is shared with account.Account.
// INVARIANT: Interests has no duplicates
type Profile struct {
	ID          string
	Name        string
	Email       string
	Avatar      string
	City        string
	Interests   []string
	JoinedClubs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Update carries a partial profile edit. Nil fields are left unchanged.
type Update struct {
	Name      *string
	Avatar    *string
	City      *string
	Interests *[]string
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(p.City) > MaxCityLength {
		return ErrCityTooLong
	}
	for _, in := range p.Interests {
		if !club.IsCategory(in) {
			return fmt.Errorf("%w: %s", ErrInvalidInterest, in)
		}
	}
	return nil
}

// NeedsOnboarding reports whether the profile is missing the city chosen during onboarding.
func (p *Profile) NeedsOnboarding() bool {
	return strings.TrimSpace(p.City) == ""
}

// Apply merges u into the profile.
// POST: UpdatedAt = now; Interests de-duplicated in first-seen order
func (p *Profile) Apply(u Update, now time.Time) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	if u.City != nil {
		p.City = strings.TrimSpace(*u.City)
	}
	if u.Interests != nil {
		p.Interests = dedupe(*u.Interests)
	}
	p.UpdatedAt = now
}

// HasJoined reports whether clubID is in JoinedClubs.
func (p *Profile) HasJoined(clubID string) bool {
	return slices.Contains(p.JoinedClubs, clubID)
}

// AvatarURL returns a placeholder avatar URL for seed.
func AvatarURL(seed string) string {
	return "https://picsum.photos/seed/" + seed + "/200"
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
