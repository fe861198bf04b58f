package migration

import (
	"skillswap/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.CommunityModel{},
		&models.MembershipModel{},
		&models.CreditTransactionModel{},
	}
}
