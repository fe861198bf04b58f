package community

import (
	"context"
	"time"
)

// RenewalCandidate is one row of the auto-renew selection. The query joins in
// the user's current balance and the community's pricing fields so the sweep
// issues no further reads per item.
type RenewalCandidate struct {
	Membership       *Membership
	UserCredits      int
	CommunityCost    int
	CommunityAdminID uint
	CommunityName    string
}

// CommunityRepository persists community aggregates.
type CommunityRepository interface {
	// FindByID returns nil, nil when no community exists with the ID.
	FindByID(ctx context.Context, id uint) (*Community, error)

	Create(ctx context.Context, c *Community) error

	// ListActive returns all active communities ordered by name.
	ListActive(ctx context.Context) ([]*Community, error)

	// IncrementMemberCount and DecrementMemberCount adjust the cached active
	// member counter. They must only be called inside a unit-of-work scope,
	// paired with the membership mutation they account for.
	IncrementMemberCount(ctx context.Context, id uint) error
	DecrementMemberCount(ctx context.Context, id uint) error
}

// MembershipRepository persists membership rows.
type MembershipRepository interface {
	// FindByUserAndCommunity returns the logical membership row for the pair,
	// active or not. Returns nil, nil when the user never joined.
	FindByUserAndCommunity(ctx context.Context, userID, communityID uint) (*Membership, error)

	Create(ctx context.Context, m *Membership) error
	Update(ctx context.Context, m *Membership) error

	// FindExpired returns active, non-auto-renew memberships whose
	// subscription lapsed before now.
	FindExpired(ctx context.Context, now time.Time) ([]*Membership, error)

	// FindExpiredAutoRenew returns active auto-renew memberships whose
	// subscription lapsed before now, denormalized with the fields the
	// renewal sweep needs.
	FindExpiredAutoRenew(ctx context.Context, now time.Time) ([]RenewalCandidate, error)

	// ListActiveByUser returns the user's active memberships, newest first.
	ListActiveByUser(ctx context.Context, userID uint) ([]*Membership, error)

	// CountActiveByCommunity counts active membership rows for a community.
	CountActiveByCommunity(ctx context.Context, communityID uint) (int64, error)
}
