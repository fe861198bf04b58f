package usecases

import (
	"context"

	"skillswap/internal/domain/community"
)

// TransactionManager is the unit-of-work boundary the lifecycle and
// reconciliation use cases run their mutations inside. Every mutation made
// through repositories and the credit ledger within fn commits or rolls back
// together; fn runs at most once per call and its error becomes the unit's
// error with no partial effects visible afterward.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NotificationSender is the fire-and-forget fan-out boundary. Delivery is
// best-effort: use cases call it only after a committed transaction and log,
// never propagate, its errors.
type NotificationSender interface {
	SendToCommunity(ctx context.Context, communityID uint, event community.Event) error
	SendToUser(ctx context.Context, userID uint, event community.Event) error
}
