package profile

import (
	"context"

	domain "connect/internal/domain/profile"
)

// Store persists Profile state.
// JoinedClubs is derived from club membership and never written through Save.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
	Delete(ctx context.Context, id string) error
}
