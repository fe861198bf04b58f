package models

import (
	"time"

	"gorm.io/gorm"

	"skillswap/internal/shared/constants"
)

// CommunityModel represents the database persistence model for communities.
// This is the anti-corruption layer between domain and database.
type CommunityModel struct {
	ID            uint   `gorm:"primarykey"`
	Name          string `gorm:"not null;size:255"`
	Description   string `gorm:"type:text"`
	CreditsCost   int    `gorm:"not null;default:0"`
	CreditsPeriod string `gorm:"size:20;not null;default:monthly"`
	MembersCount  int    `gorm:"not null;default:0"`
	IsActive      bool   `gorm:"not null;default:true;index:idx_community_active"`
	AdminID       uint   `gorm:"not null;index:idx_community_admin"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (CommunityModel) TableName() string {
	return constants.TableCommunities
}
