package models

import (
	"time"

	"skillswap/internal/shared/constants"
)

// MembershipModel represents the database persistence model for community
// memberships. The (user_id, community_id) pair is unique: re-joining reuses
// the row. Rows are deactivated, never deleted.
type MembershipModel struct {
	ID                 uint       `gorm:"primarykey"`
	CommunityID        uint       `gorm:"not null;uniqueIndex:idx_member_user_community,priority:2"`
	UserID             uint       `gorm:"not null;uniqueIndex:idx_member_user_community,priority:1"`
	Role               string     `gorm:"not null;size:20;default:member"`
	IsAutoRenew        bool       `gorm:"not null;default:false"`
	SubscriptionEndsAt *time.Time `gorm:"index:idx_member_ends_at"`
	JoinedAt           time.Time  `gorm:"not null"`
	LeftAt             *time.Time
	IsActive           bool `gorm:"not null;default:true;index:idx_member_active"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the table name for GORM
func (MembershipModel) TableName() string {
	return constants.TableMemberships
}
