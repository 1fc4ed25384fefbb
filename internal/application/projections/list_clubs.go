package projections

import (
	"context"

	"connect/internal/domain/club"
)

// ClubLister defines the store interface needed by ListClubs.
type ClubLister interface {
	List(ctx context.Context) ([]club.Club, error)
}

// ListClubsDeps holds dependencies for the ListClubs projection.
type ListClubsDeps struct {
	ClubStore ClubLister
}

// QueryListClubs returns the clubs matching filter in the requested order.
// PRE: none
// POST: the result is a snapshot; the store is not modified
func QueryListClubs(ctx context.Context, filter club.Filter, deps ListClubsDeps) ([]club.Club, error) {
	all, err := deps.ClubStore.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(all), nil
}
