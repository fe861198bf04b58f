package models

import (
	"time"

	"skillswap/internal/shared/constants"
)

// UserModel carries the slice of the user aggregate this core consumes: the
// credit balance. Profile, auth, and skills live with the user service. The
// credits column is guarded non-negative by the ledger's conditional update.
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"size:255"`
	Credits   int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}
