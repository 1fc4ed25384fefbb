package orchestrators

import (
	"context"
	"strings"

	"connect/internal/adapters/genai"
	"connect/internal/domain/club"
	"connect/internal/domain/event"
)

// GenerateCopyDeps holds dependencies for the copy generators.
type GenerateCopyDeps struct {
	Copywriter genai.Copywriter
}

// EventCopyInput carries input for GenerateEventCopy.
type EventCopyInput struct {
	Title    string
	Tags     []string
	Location string
}

// ExecuteGenerateEventCopy drafts an event description.
// Collaborator failures come back as fallback text, never as errors.
// PRE: title is non-empty
func ExecuteGenerateEventCopy(ctx context.Context, input EventCopyInput, deps GenerateCopyDeps) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", event.ErrEmptyTitle
	}
	return deps.Copywriter.EventDescription(ctx, title, club.NormalizeTags(input.Tags), strings.TrimSpace(input.Location)), nil
}

// ClubCopyInput carries input for GenerateClubCopy.
type ClubCopyInput struct {
	Name     string
	Category string
}

// ExecuteGenerateClubCopy drafts a club mission statement.
// PRE: name is non-empty; category is one of club.Categories
func ExecuteGenerateClubCopy(ctx context.Context, input ClubCopyInput, deps GenerateCopyDeps) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", club.ErrEmptyName
	}
	if !club.IsCategory(input.Category) {
		return "", club.ErrInvalidCategory
	}
	return deps.Copywriter.ClubMission(ctx, name, input.Category), nil
}
