// Package constants defines shared constant values used across the application.
package constants

// Environment names
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Database table names
const (
	TableCommunities        = "communities"
	TableMemberships        = "community_memberships"
	TableUsers              = "users"
	TableCreditTransactions = "credit_transactions"
)

// MembershipPeriodDays is the fixed subscription period applied on join and
// on every successful auto-renewal. The community's credits_period column is
// informational only.
const MembershipPeriodDays = 30
