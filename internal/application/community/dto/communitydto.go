package dto

import (
	"time"

	"skillswap/internal/domain/community"
)

type CommunityDTO struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CreditsCost   int       `json:"credits_cost"`
	CreditsPeriod string    `json:"credits_period"`
	MembersCount  int       `json:"members_count"`
	AdminID       uint      `json:"admin_id"`
	CreatedAt     time.Time `json:"created_at"`
}

type MembershipDTO struct {
	ID                 uint       `json:"id"`
	CommunityID        uint       `json:"community_id"`
	Role               string     `json:"role"`
	IsAutoRenew        bool       `json:"is_auto_renew"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	JoinedAt           time.Time  `json:"joined_at"`
}

type JoinCommunityRequest struct {
	AutoRenew bool `json:"auto_renew"`
}

type CreateCommunityRequest struct {
	Name          string `json:"name" binding:"required" validate:"required,min=2,max=100"`
	Description   string `json:"description" validate:"max=1000"`
	CreditsCost   int    `json:"credits_cost" validate:"gte=0,lte=100000"`
	CreditsPeriod string `json:"credits_period" binding:"required" validate:"required,oneof=monthly yearly"`
}

type CommunityListDTO struct {
	Communities []*CommunityDTO `json:"communities"`
	Total       int             `json:"total"`
}

type MembershipListDTO struct {
	Memberships []*MembershipDTO `json:"memberships"`
	Total       int              `json:"total"`
}

// CommunityFromEntity converts a domain community to its API representation.
func CommunityFromEntity(c *community.Community) *CommunityDTO {
	return &CommunityDTO{
		ID:            c.ID(),
		Name:          c.Name(),
		Description:   c.Description(),
		CreditsCost:   c.CreditsCost(),
		CreditsPeriod: c.CreditsPeriod(),
		MembersCount:  c.MembersCount(),
		AdminID:       c.AdminID(),
		CreatedAt:     c.CreatedAt(),
	}
}

// MembershipFromEntity converts a domain membership to its API representation.
func MembershipFromEntity(m *community.Membership) *MembershipDTO {
	return &MembershipDTO{
		ID:                 m.ID(),
		CommunityID:        m.CommunityID(),
		Role:               string(m.Role()),
		IsAutoRenew:        m.IsAutoRenew(),
		SubscriptionEndsAt: m.SubscriptionEndsAt(),
		JoinedAt:           m.JoinedAt(),
	}
}
