// Package credits defines the credit ledger contract consumed by the
// membership core. Balances are non-negative integers; the ledger must never
// allow a committed state with a negative balance.
package credits

import (
	"context"
	"fmt"
)

// Common credit movement reasons recorded on ledger entries.
const (
	ReasonCommunityJoin  = "community_join"
	ReasonCommunityRenew = "community_renew"
	ReasonEarned         = "earned"
)

// InsufficientCreditsError indicates a deduction was attempted against a
// balance smaller than the requested amount.
type InsufficientCreditsError struct {
	UserID uint
	Amount int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: user %d cannot pay %d", e.UserID, e.Amount)
}

// Ledger moves credits between user balances. Both mutating methods resolve
// the ambient database transaction from ctx, so calls made inside a
// unit-of-work scope commit or roll back together with the caller's other
// mutations. Calling them outside a transaction scope runs them standalone,
// which the membership core never does.
type Ledger interface {
	// Deduct atomically lowers the user's balance by amount. Returns
	// *InsufficientCreditsError when the balance is smaller than amount.
	Deduct(ctx context.Context, userID uint, amount int, reason string) error

	// Credit atomically raises the user's balance by amount.
	Credit(ctx context.Context, userID uint, amount int, reason string) error

	// BalanceOf returns the user's current balance.
	BalanceOf(ctx context.Context, userID uint) (int, error)
}
