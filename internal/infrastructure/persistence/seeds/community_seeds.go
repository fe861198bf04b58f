package seeds

import (
	"gorm.io/gorm"

	"skillswap/internal/infrastructure/persistence/models"
)

// SeedDevData seeds a handful of users and communities for local development.
// Idempotent: re-running against an already seeded database is a no-op.
func SeedDevData(db *gorm.DB) error {
	users := []models.UserModel{
		{Name: "Ada", Credits: 100},
		{Name: "Brendan", Credits: 60},
		{Name: "Chen", Credits: 15},
	}

	for i := range users {
		if err := db.FirstOrCreate(&users[i], models.UserModel{
			Name: users[i].Name,
		}).Error; err != nil {
			return err
		}
	}

	communities := []models.CommunityModel{
		{
			Name:          "Go Study Circle",
			Description:   "Weekly code reviews and pairing sessions for Go learners.",
			CreditsCost:   20,
			CreditsPeriod: "monthly",
			IsActive:      true,
			AdminID:       users[0].ID,
		},
		{
			Name:          "Photography Swap",
			Description:   "Trade portrait sessions for photo editing lessons.",
			CreditsCost:   10,
			CreditsPeriod: "monthly",
			IsActive:      true,
			AdminID:       users[1].ID,
		},
		{
			Name:          "Language Exchange",
			Description:   "Free community for practicing conversation.",
			CreditsCost:   0,
			CreditsPeriod: "monthly",
			IsActive:      true,
			AdminID:       users[0].ID,
		},
	}

	for i := range communities {
		if err := db.FirstOrCreate(&communities[i], models.CommunityModel{
			Name: communities[i].Name,
		}).Error; err != nil {
			return err
		}
	}

	return nil
}
