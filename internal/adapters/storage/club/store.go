package club

import (
	"context"
	"time"

	domain "connect/internal/domain/club"
)

// Store persists clubs and their membership.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Club, error)
	List(ctx context.Context) ([]domain.Club, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Club, error)
	Save(ctx context.Context, value domain.Club) error
	Delete(ctx context.Context, id string) error

	// AddMember and RemoveMember report whether membership actually changed.
	// member_count moves only when it does.
	AddMember(ctx context.Context, clubID, userID string, at time.Time) (bool, error)
	RemoveMember(ctx context.Context, clubID, userID string) (bool, error)
	IsMember(ctx context.Context, clubID, userID string) (bool, error)
	ListMemberIDs(ctx context.Context, clubID string) ([]string, error)
}
