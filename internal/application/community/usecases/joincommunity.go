package usecases

import (
	"context"
	"errors"
	"fmt"

	"skillswap/internal/domain/community"
	"skillswap/internal/domain/credits"
	apperrors "skillswap/internal/shared/errors"
	"skillswap/internal/shared/logger"
)

type JoinCommunityCommand struct {
	UserID      uint
	CommunityID uint
	AutoRenew   bool
}

// JoinCommunityUseCase handles a user joining a paid community. The debit,
// the membership upsert, and the member count increment form one atomic unit;
// the member_joined notification goes out only after the commit.
type JoinCommunityUseCase struct {
	communityRepo  community.CommunityRepository
	membershipRepo community.MembershipRepository
	ledger         credits.Ledger
	txManager      TransactionManager
	notifier       NotificationSender
	logger         logger.Interface
}

func NewJoinCommunityUseCase(
	communityRepo community.CommunityRepository,
	membershipRepo community.MembershipRepository,
	ledger credits.Ledger,
	txManager TransactionManager,
	notifier NotificationSender,
	logger logger.Interface,
) *JoinCommunityUseCase {
	return &JoinCommunityUseCase{
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		ledger:         ledger,
		txManager:      txManager,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *JoinCommunityUseCase) Execute(ctx context.Context, cmd JoinCommunityCommand) (*community.Membership, error) {
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("user id is required")
	}
	if cmd.CommunityID == 0 {
		return nil, apperrors.NewValidationError("community id is required")
	}

	var membership *community.Membership
	queue := &notificationQueue{}

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		comm, err := uc.communityRepo.FindByID(txCtx, cmd.CommunityID)
		if err != nil {
			return fmt.Errorf("failed to load community: %w", err)
		}
		if comm == nil || !comm.IsActive() {
			return apperrors.NewNotFoundError("community not found")
		}

		existing, err := uc.membershipRepo.FindByUserAndCommunity(txCtx, cmd.UserID, cmd.CommunityID)
		if err != nil {
			return fmt.Errorf("failed to load membership: %w", err)
		}
		if existing != nil && existing.IsActive() {
			return apperrors.NewConflictError("already a member")
		}

		if comm.CreditsCost() > 0 {
			if err := uc.ledger.Deduct(txCtx, cmd.UserID, comm.CreditsCost(), credits.ReasonCommunityJoin); err != nil {
				var insufficient *credits.InsufficientCreditsError
				if errors.As(err, &insufficient) {
					return apperrors.NewValidationError("insufficient credits")
				}
				return fmt.Errorf("failed to debit join fee: %w", err)
			}
		}

		if existing == nil {
			membership, err = community.NewMembership(cmd.CommunityID, cmd.UserID, community.RoleMember, cmd.AutoRenew)
			if err != nil {
				return apperrors.NewValidationError(err.Error())
			}
			if err := uc.membershipRepo.Create(txCtx, membership); err != nil {
				return fmt.Errorf("failed to create membership: %w", err)
			}
		} else {
			if err := existing.Reactivate(cmd.AutoRenew); err != nil {
				return fmt.Errorf("failed to reactivate membership: %w", err)
			}
			if err := uc.membershipRepo.Update(txCtx, existing); err != nil {
				return fmt.Errorf("failed to update membership: %w", err)
			}
			membership = existing
		}

		if err := uc.communityRepo.IncrementMemberCount(txCtx, cmd.CommunityID); err != nil {
			return fmt.Errorf("failed to increment member count: %w", err)
		}

		queue.toCommunity(cmd.CommunityID, community.NewMemberJoinedEvent(cmd.CommunityID, cmd.UserID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("user joined community",
		"user_id", cmd.UserID,
		"community_id", cmd.CommunityID,
		"auto_renew", cmd.AutoRenew,
	)

	queue.drain(uc.notifier, uc.logger)

	return membership, nil
}
