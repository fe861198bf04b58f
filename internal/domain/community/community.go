package community

import (
	"fmt"
	"time"
)

// Community represents the community aggregate root. The members count is a
// cached counter maintained by the lifecycle and reconciliation operations;
// after every committed transaction it equals the number of active
// memberships for the community.
type Community struct {
	id            uint
	name          string
	description   string
	creditsCost   int
	creditsPeriod string
	membersCount  int
	isActive      bool
	adminID       uint
	createdAt     time.Time
	updatedAt     time.Time
}

// NewCommunity creates a new community
func NewCommunity(name, description string, creditsCost int, creditsPeriod string, adminID uint) (*Community, error) {
	if name == "" {
		return nil, fmt.Errorf("community name is required")
	}
	if creditsCost < 0 {
		return nil, fmt.Errorf("credits cost cannot be negative")
	}
	if adminID == 0 {
		return nil, fmt.Errorf("admin ID is required")
	}

	now := time.Now()
	return &Community{
		name:          name,
		description:   description,
		creditsCost:   creditsCost,
		creditsPeriod: creditsPeriod,
		membersCount:  0,
		isActive:      true,
		adminID:       adminID,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructCommunity reconstructs a community from persistence
func ReconstructCommunity(
	id uint,
	name, description string,
	creditsCost int,
	creditsPeriod string,
	membersCount int,
	isActive bool,
	adminID uint,
	createdAt, updatedAt time.Time,
) (*Community, error) {
	if id == 0 {
		return nil, fmt.Errorf("community ID cannot be zero")
	}
	if creditsCost < 0 {
		return nil, fmt.Errorf("credits cost cannot be negative")
	}

	return &Community{
		id:            id,
		name:          name,
		description:   description,
		creditsCost:   creditsCost,
		creditsPeriod: creditsPeriod,
		membersCount:  membersCount,
		isActive:      isActive,
		adminID:       adminID,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// ID returns the community ID
func (c *Community) ID() uint {
	return c.id
}

// Name returns the community name
func (c *Community) Name() string {
	return c.name
}

// Description returns the community description
func (c *Community) Description() string {
	return c.description
}

// CreditsCost returns the price in credits per subscription period
func (c *Community) CreditsCost() int {
	return c.creditsCost
}

// CreditsPeriod returns the informational period label. The actual renewal
// interval is fixed by the lifecycle logic.
func (c *Community) CreditsPeriod() string {
	return c.creditsPeriod
}

// MembersCount returns the cached active member count
func (c *Community) MembersCount() int {
	return c.membersCount
}

// IsActive returns whether the community is active
func (c *Community) IsActive() bool {
	return c.isActive
}

// AdminID returns the community admin's user ID
func (c *Community) AdminID() uint {
	return c.adminID
}

// CreatedAt returns when the community was created
func (c *Community) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the community was last updated
func (c *Community) UpdatedAt() time.Time {
	return c.updatedAt
}

// IsAdmin reports whether the given user administers this community.
func (c *Community) IsAdmin(userID uint) bool {
	return c.adminID == userID
}

// SetID sets the community ID (only for persistence layer use)
func (c *Community) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("community ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("community ID cannot be zero")
	}
	c.id = id
	return nil
}
