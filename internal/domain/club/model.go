package club

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// Visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Sort keys accepted by club listings.
const (
	SortTrending = "Trending" // member count, descending
	SortNew      = "New"      // identifier-derived recency, descending
)

// All is the sentinel filter value that disables a category or location filter.
const All = "All"

// Max length constants.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 2000
	MaxLocationLength    = 100
	MaxTags              = 10
)

// Categories is the fixed set of club categories. Onboarding interests are drawn
// from the same set.
var Categories = []string{
	"Books", "Running", "Music", "Fitness", "Tech", "Startups",
	"Photography", "Travel", "Movies", "Art", "Cooking", "Chess",
	"Wellness", "Cycling", "Dance", "Anime", "Finance", "Speaking",
	"Gaming", "Design",
}

// Domain errors
var (
	ErrEmptyName         = errors.New("club name cannot be empty")
	ErrNameTooLong       = errors.New("club name cannot exceed 100 characters")
	ErrInvalidCategory   = errors.New("club category is not recognised")
	ErrEmptyLocation     = errors.New("club location cannot be empty")
	ErrInvalidVisibility = errors.New("club visibility must be 'public' or 'private'")
	ErrEmptyOwner        = errors.New("club owner is required")
	ErrTooManyTags       = errors.New("a club can have at most 10 tags")
	ErrNotOwner          = errors.New("only the club owner can do that")
	ErrNotMember         = errors.New("you must join the club first")
)

// Club is a joinable interest-based community.
// INVARIANT: MemberCount >= 0
type Club struct {
	ID          string
	Name        string
	Description string
	Category    string
	MemberCount int
	Image       string
	CoverImage  string
	Tags        []string
	Visibility  string
	Location    string
	OwnerID     string
	FounderName string
	FounderBio  string
	CreatedAt   time.Time
}

// Validate checks the club's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (c *Club) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(c.Description) > MaxDescriptionLength {
		return errors.New("club description cannot exceed 2000 characters")
	}
	if !IsCategory(c.Category) {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(c.Location) == "" {
		return ErrEmptyLocation
	}
	if len(c.Location) > MaxLocationLength {
		return errors.New("club location cannot exceed 100 characters")
	}
	if c.Visibility != VisibilityPublic && c.Visibility != VisibilityPrivate {
		return ErrInvalidVisibility
	}
	if c.OwnerID == "" {
		return ErrEmptyOwner
	}
	if len(c.Tags) > MaxTags {
		return ErrTooManyTags
	}
	return nil
}

// AddMember increments the member count.
func (c *Club) AddMember() {
	c.MemberCount++
}

// RemoveMember decrements the member count, never below zero.
// POST: MemberCount >= 0
func (c *Club) RemoveMember() {
	if c.MemberCount > 0 {
		c.MemberCount--
	}
}

// IsOwner reports whether userID owns the club.
func (c *Club) IsOwner(userID string) bool {
	return userID != "" && c.OwnerID == userID
}

// Matches reports whether the club passes a case-insensitive substring search
// over its name and tags. An empty query matches everything.
// INVARIANT: Club fields are not mutated
func (c *Club) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.Name), q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	return slices.Contains(Categories, name)
}

// NormalizeTags trims, drops empties and de-duplicates case-insensitively,
// keeping first-seen order and spelling.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
