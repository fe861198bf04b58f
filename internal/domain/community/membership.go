package community

import (
	"fmt"
	"time"
)

// SubscriptionPeriod is the fixed membership period applied on join and on
// every successful auto-renewal.
const SubscriptionPeriod = 30 * 24 * time.Hour

// Role identifies a member's role within a community.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ValidRoles enumerates the accepted role values.
var ValidRoles = map[Role]bool{
	RoleAdmin:  true,
	RoleMember: true,
}

// Membership represents the relationship row linking a user to a community.
// There is at most one logical membership per (user, community); re-joining
// reactivates the existing row. Rows are soft state and never physically
// deleted, an inactive row keeps its last subscriptionEndsAt and leftAt as
// history.
type Membership struct {
	id                 uint
	communityID        uint
	userID             uint
	role               Role
	isAutoRenew        bool
	subscriptionEndsAt *time.Time
	joinedAt           time.Time
	leftAt             *time.Time
	isActive           bool
	createdAt          time.Time
	updatedAt          time.Time
}

// NewMembership creates a new active membership starting now with a full
// subscription period ahead of it.
func NewMembership(communityID, userID uint, role Role, autoRenew bool) (*Membership, error) {
	if communityID == 0 {
		return nil, fmt.Errorf("community ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !ValidRoles[role] {
		return nil, fmt.Errorf("invalid membership role: %s", role)
	}

	now := time.Now()
	endsAt := now.Add(SubscriptionPeriod)
	return &Membership{
		communityID:        communityID,
		userID:             userID,
		role:               role,
		isAutoRenew:        autoRenew,
		subscriptionEndsAt: &endsAt,
		joinedAt:           now,
		isActive:           true,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// ReconstructMembership reconstructs a membership from persistence
func ReconstructMembership(
	id, communityID, userID uint,
	role Role,
	isAutoRenew bool,
	subscriptionEndsAt *time.Time,
	joinedAt time.Time,
	leftAt *time.Time,
	isActive bool,
	createdAt, updatedAt time.Time,
) (*Membership, error) {
	if id == 0 {
		return nil, fmt.Errorf("membership ID cannot be zero")
	}
	if communityID == 0 {
		return nil, fmt.Errorf("community ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !ValidRoles[role] {
		return nil, fmt.Errorf("invalid membership role: %s", role)
	}

	return &Membership{
		id:                 id,
		communityID:        communityID,
		userID:             userID,
		role:               role,
		isAutoRenew:        isAutoRenew,
		subscriptionEndsAt: subscriptionEndsAt,
		joinedAt:           joinedAt,
		leftAt:             leftAt,
		isActive:           isActive,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

// ID returns the membership ID
func (m *Membership) ID() uint {
	return m.id
}

// CommunityID returns the community ID
func (m *Membership) CommunityID() uint {
	return m.communityID
}

// UserID returns the user ID
func (m *Membership) UserID() uint {
	return m.userID
}

// Role returns the member's role
func (m *Membership) Role() Role {
	return m.role
}

// IsAutoRenew returns whether the membership renews automatically
func (m *Membership) IsAutoRenew() bool {
	return m.isAutoRenew
}

// SubscriptionEndsAt returns when the current subscription period lapses.
// Only meaningful while the membership is active.
func (m *Membership) SubscriptionEndsAt() *time.Time {
	return m.subscriptionEndsAt
}

// JoinedAt returns when the user joined
func (m *Membership) JoinedAt() time.Time {
	return m.joinedAt
}

// LeftAt returns when the user left, if ever
func (m *Membership) LeftAt() *time.Time {
	return m.leftAt
}

// IsActive returns whether the membership is active
func (m *Membership) IsActive() bool {
	return m.isActive
}

// CreatedAt returns when the row was created
func (m *Membership) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns when the row was last updated
func (m *Membership) UpdatedAt() time.Time {
	return m.updatedAt
}

// IsLapsed reports whether the subscription period has passed at the given
// instant. An inactive membership is never considered lapsed; it is already
// out of the lifecycle.
func (m *Membership) IsLapsed(now time.Time) bool {
	return m.isActive && m.subscriptionEndsAt != nil && m.subscriptionEndsAt.Before(now)
}

// Reactivate resets a previously deactivated membership for a re-join:
// role back to member, a fresh subscription period, no leave timestamp.
func (m *Membership) Reactivate(autoRenew bool) error {
	if m.isActive {
		return fmt.Errorf("membership is already active")
	}

	now := time.Now()
	endsAt := now.Add(SubscriptionPeriod)
	m.role = RoleMember
	m.isAutoRenew = autoRenew
	m.subscriptionEndsAt = &endsAt
	m.joinedAt = now
	m.leftAt = nil
	m.isActive = true
	m.updatedAt = now
	return nil
}

// Deactivate ends the membership: voluntary leave, expiry, or a failed
// auto-renewal all pass through here. The last subscription end date is kept
// as history.
func (m *Membership) Deactivate() error {
	if !m.isActive {
		return fmt.Errorf("membership is not active")
	}

	now := time.Now()
	m.isActive = false
	m.leftAt = &now
	m.updatedAt = now
	return nil
}

// Renew extends the subscription by one full period counted from the given
// origin. The origin is "now" rather than the stale end date so that a missed
// sweep does not compound into a backlog of periods.
func (m *Membership) Renew(from time.Time) error {
	if !m.isActive {
		return fmt.Errorf("cannot renew an inactive membership")
	}
	if !m.isAutoRenew {
		return fmt.Errorf("membership is not set to auto-renew")
	}

	endsAt := from.Add(SubscriptionPeriod)
	m.subscriptionEndsAt = &endsAt
	m.updatedAt = time.Now()
	return nil
}

// SetID sets the membership ID (only for persistence layer use)
func (m *Membership) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("membership ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("membership ID cannot be zero")
	}
	m.id = id
	return nil
}
