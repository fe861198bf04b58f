package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillswap/internal/domain/community"
	"skillswap/internal/domain/credits"
	"skillswap/internal/shared/logger"
)

// RenewMembershipsUseCase is the auto-renew sweep. For every lapsed
// auto-renew membership it either charges the user and extends the
// subscription, or, when the balance cannot cover the cost, expires the
// membership the same way the expiry sweep does.
//
// The selection query denormalizes the user's balance and the community's
// pricing so the sweep issues no extra reads per item. Each item runs in its
// own transaction with the same partial-failure isolation as the expiry
// sweep.
type RenewMembershipsUseCase struct {
	communityRepo  community.CommunityRepository
	membershipRepo community.MembershipRepository
	ledger         credits.Ledger
	txManager      TransactionManager
	notifier       NotificationSender
	logger         logger.Interface
}

func NewRenewMembershipsUseCase(
	communityRepo community.CommunityRepository,
	membershipRepo community.MembershipRepository,
	ledger credits.Ledger,
	txManager TransactionManager,
	notifier NotificationSender,
	logger logger.Interface,
) *RenewMembershipsUseCase {
	return &RenewMembershipsUseCase{
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		ledger:         ledger,
		txManager:      txManager,
		notifier:       notifier,
		logger:         logger,
	}
}

// Execute processes all lapsed auto-renew memberships and returns the number
// of items resolved, renewed or expired. Per-item failures are logged and do
// not abort the sweep.
func (uc *RenewMembershipsUseCase) Execute(ctx context.Context) (int, error) {
	now := time.Now()

	candidates, err := uc.membershipRepo.FindExpiredAutoRenew(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find auto-renew candidates: %w", err)
	}

	if len(candidates) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found auto-renew memberships to process", "count", len(candidates))

	processed := 0
	for _, c := range candidates {
		ok, err := uc.processOne(ctx, c, now)
		if err != nil {
			uc.logger.Errorw("failed to process auto-renew membership",
				"membership_id", c.Membership.ID(),
				"user_id", c.Membership.UserID(),
				"community_id", c.Membership.CommunityID(),
				"error", err,
			)
			continue
		}
		if ok {
			processed++
		}
	}

	return processed, nil
}

func (uc *RenewMembershipsUseCase) processOne(ctx context.Context, c community.RenewalCandidate, now time.Time) (bool, error) {
	if c.UserCredits >= c.CommunityCost {
		ok, err := uc.renew(ctx, c, now)
		var insufficient *credits.InsufficientCreditsError
		if err != nil && errors.As(err, &insufficient) {
			// the balance moved between the selection query and the debit;
			// resolve the membership the same way an underfunded one is
			return uc.expire(ctx, c, now)
		}
		return ok, err
	}
	return uc.expire(ctx, c, now)
}

// renew charges the user, pays the community admin, and extends the
// subscription by one period counted from now. All of it is one atomic unit.
func (uc *RenewMembershipsUseCase) renew(ctx context.Context, c community.RenewalCandidate, now time.Time) (bool, error) {
	queue := &notificationQueue{}
	skipped := false
	m := c.Membership

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		fresh, err := uc.membershipRepo.FindByUserAndCommunity(txCtx, m.UserID(), m.CommunityID())
		if err != nil {
			return fmt.Errorf("failed to re-read membership: %w", err)
		}
		if fresh == nil || !fresh.IsAutoRenew() || !fresh.IsLapsed(now) {
			skipped = true
			return nil
		}

		if c.CommunityCost > 0 {
			if err := uc.ledger.Deduct(txCtx, fresh.UserID(), c.CommunityCost, credits.ReasonCommunityRenew); err != nil {
				return fmt.Errorf("failed to debit renewal fee: %w", err)
			}
			if c.CommunityAdminID != fresh.UserID() {
				if err := uc.ledger.Credit(txCtx, c.CommunityAdminID, c.CommunityCost, credits.ReasonEarned); err != nil {
					return fmt.Errorf("failed to credit community admin: %w", err)
				}
			}
		}

		if err := fresh.Renew(now); err != nil {
			return fmt.Errorf("failed to renew membership: %w", err)
		}
		if err := uc.membershipRepo.Update(txCtx, fresh); err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}

		queue.toUser(fresh.UserID(), community.NewSubscriptionRenewedEvent(
			fresh.CommunityID(),
			fresh.UserID(),
			*fresh.SubscriptionEndsAt(),
			c.CommunityCost,
		))
		queue.toUser(fresh.UserID(), community.NewBalanceUpdatedEvent(fresh.UserID()))
		return nil
	})
	if err != nil {
		return false, err
	}
	if skipped {
		return false, nil
	}

	uc.logger.Infow("membership renewed",
		"membership_id", m.ID(),
		"user_id", m.UserID(),
		"community_id", m.CommunityID(),
		"credits_deducted", c.CommunityCost,
	)

	queue.drain(uc.notifier, uc.logger)
	return true, nil
}

// expire resolves a failed renewal: the membership is deactivated exactly
// like the expiry sweep does, with a message naming the community.
func (uc *RenewMembershipsUseCase) expire(ctx context.Context, c community.RenewalCandidate, now time.Time) (bool, error) {
	queue := &notificationQueue{}
	skipped := false
	m := c.Membership

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		fresh, err := uc.membershipRepo.FindByUserAndCommunity(txCtx, m.UserID(), m.CommunityID())
		if err != nil {
			return fmt.Errorf("failed to re-read membership: %w", err)
		}
		if fresh == nil || !fresh.IsLapsed(now) {
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
			community.RemovalReasonAutoRenewFailed,
			fmt.Sprintf("Your membership in %q ended because the renewal could not be charged.", c.CommunityName),
		))
		return nil
	})
	if err != nil {
		return false, err
	}
	if skipped {
		return false, nil
	}

	uc.logger.Infow("membership expired after failed renewal",
		"membership_id", m.ID(),
		"user_id", m.UserID(),
		"community_id", m.CommunityID(),
		"user_credits", c.UserCredits,
		"community_cost", c.CommunityCost,
	)

	queue.drain(uc.notifier, uc.logger)
	return true, nil
}
