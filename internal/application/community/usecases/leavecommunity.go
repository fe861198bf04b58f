package usecases

import (
	"context"
	"fmt"

	"skillswap/internal/domain/community"
	apperrors "skillswap/internal/shared/errors"
	"skillswap/internal/shared/logger"
)

type LeaveCommunityCommand struct {
	UserID      uint
	CommunityID uint
}

// LeaveCommunityUseCase handles a user leaving a community. The membership
// deactivation and the member count decrement form one atomic unit. The
// community admin can never leave their own community.
type LeaveCommunityUseCase struct {
	communityRepo  community.CommunityRepository
	membershipRepo community.MembershipRepository
	txManager      TransactionManager
	notifier       NotificationSender
	logger         logger.Interface
}

func NewLeaveCommunityUseCase(
	communityRepo community.CommunityRepository,
	membershipRepo community.MembershipRepository,
	txManager TransactionManager,
	notifier NotificationSender,
	logger logger.Interface,
) *LeaveCommunityUseCase {
	return &LeaveCommunityUseCase{
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		txManager:      txManager,
		notifier:       notifier,
		logger:         logger,
	}
}

func (uc *LeaveCommunityUseCase) Execute(ctx context.Context, cmd LeaveCommunityCommand) error {
	if cmd.UserID == 0 {
		return apperrors.NewValidationError("user id is required")
	}
	if cmd.CommunityID == 0 {
		return apperrors.NewValidationError("community id is required")
	}

	queue := &notificationQueue{}

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		comm, err := uc.communityRepo.FindByID(txCtx, cmd.CommunityID)
		if err != nil {
			return fmt.Errorf("failed to load community: %w", err)
		}
		if comm == nil {
			return apperrors.NewNotFoundError("community not found")
		}

		membership, err := uc.membershipRepo.FindByUserAndCommunity(txCtx, cmd.UserID, cmd.CommunityID)
		if err != nil {
			return fmt.Errorf("failed to load membership: %w", err)
		}
		if membership == nil || !membership.IsActive() {
			return apperrors.NewNotFoundError("not a member")
		}

		if comm.IsAdmin(cmd.UserID) {
			return apperrors.NewForbiddenError("admins cannot leave their own community")
		}

		if err := membership.Deactivate(); err != nil {
			return fmt.Errorf("failed to deactivate membership: %w", err)
		}
		if err := uc.membershipRepo.Update(txCtx, membership); err != nil {
			return fmt.Errorf("failed to update membership: %w", err)
		}

		if err := uc.communityRepo.DecrementMemberCount(txCtx, cmd.CommunityID); err != nil {
			return fmt.Errorf("failed to decrement member count: %w", err)
		}

		queue.toCommunity(cmd.CommunityID, community.NewMemberLeftEvent(cmd.CommunityID, cmd.UserID))
		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Infow("user left community",
		"user_id", cmd.UserID,
		"community_id", cmd.CommunityID,
	)

	queue.drain(uc.notifier, uc.logger)

	return nil
}
