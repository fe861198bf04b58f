package usecases

import (
	"context"
	"fmt"
	"time"

	"skillswap/internal/domain/community"
	"skillswap/internal/shared/logger"
)

// ExpireMembershipsUseCase is the expiry sweep for memberships without
// auto-renew. It is triggered periodically by the worker and is idempotent:
// a second run with no intervening writes selects nothing.
//
// Each membership is processed in its own transaction; a failure on one item
// is logged and does not abort the remaining batch.
type ExpireMembershipsUseCase struct {
	communityRepo  community.CommunityRepository
	membershipRepo community.MembershipRepository
	txManager      TransactionManager
	notifier       NotificationSender
	logger         logger.Interface
}

func NewExpireMembershipsUseCase(
	communityRepo community.CommunityRepository,
	membershipRepo community.MembershipRepository,
	txManager TransactionManager,
	notifier NotificationSender,
	logger logger.Interface,
) *ExpireMembershipsUseCase {
	return &ExpireMembershipsUseCase{
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		txManager:      txManager,
		notifier:       notifier,
		logger:         logger,
	}
}

// Execute finds and expires all lapsed non-auto-renew memberships.
// Returns the number of memberships expired. Completion means every selected
// row was attempted, not that all succeeded; per-item failures are only
// visible in the logs.
func (uc *ExpireMembershipsUseCase) Execute(ctx context.Context) (int, error) {
	now := time.Now()

	expired, err := uc.membershipRepo.FindExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired memberships: %w", err)
	}

	if len(expired) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found expired memberships to process", "count", len(expired))

	processed := 0
	for _, m := range expired {
		ok, err := uc.expireOne(ctx, m, now)
		if err != nil {
			uc.logger.Errorw("failed to expire membership",
				"membership_id", m.ID(),
				"user_id", m.UserID(),
				"community_id", m.CommunityID(),
				"error", err,
			)
			continue
		}
		if !ok {
			// the row changed under us and no longer matches the selection
			continue
		}

		processed++
		uc.logger.Debugw("membership expired",
			"membership_id", m.ID(),
			"user_id", m.UserID(),
			"community_id", m.CommunityID(),
		)
	}

	return processed, nil
}

// expireOne deactivates a single membership in its own transaction and emits
// the post-commit notifications. Returns false when the row no longer matched
// the expiry criteria inside the transaction, which makes a racing join or
// leave a safe no-op.
func (uc *ExpireMembershipsUseCase) expireOne(ctx context.Context, m *community.Membership, now time.Time) (bool, error) {
	queue := &notificationQueue{}
	skipped := false

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		fresh, err := uc.membershipRepo.FindByUserAndCommunity(txCtx, m.UserID(), m.CommunityID())
		if err != nil {
			return fmt.Errorf("failed to re-read membership: %w", err)
		}
		if fresh == nil || fresh.IsAutoRenew() || !fresh.IsLapsed(now) {
			skipped = true
			return nil
		}

		if err := fresh.Deactivate(); err != nil {
			return fmt.Errorf("failed to deactivate membership: %w", err)
		}
		if err := uc.membershipRepo.Update(txCtx, fresh); err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}
		if err := uc.communityRepo.DecrementMemberCount(txCtx, fresh.CommunityID()); err != nil {
			return fmt.Errorf("failed to decrement member count: %w", err)
		}

		queue.toCommunity(fresh.CommunityID(), community.NewMemberLeftEvent(fresh.CommunityID(), fresh.UserID()))
		queue.toUser(fresh.UserID(), community.NewMemberRemovedEvent(
			fresh.CommunityID(),
			fresh.UserID(),
			community.RemovalReasonExpired,
			"Your community membership has expired.",
		))
		return nil
	})
	if err != nil {
		return false, err
	}
	if skipped {
		return false, nil
	}

	queue.drain(uc.notifier, uc.logger)
	return true, nil
}
