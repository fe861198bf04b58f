package usecases

import (
	"context"
	"fmt"

	"skillswap/internal/domain/community"
	apperrors "skillswap/internal/shared/errors"
	"skillswap/internal/shared/logger"
)

type CreateCommunityCommand struct {
	Name          string
	Description   string
	CreditsCost   int
	CreditsPeriod string
	AdminID       uint
}

// CreateCommunityUseCase creates a new community with the caller as admin.
type CreateCommunityUseCase struct {
	communityRepo community.CommunityRepository
	logger        logger.Interface
}

func NewCreateCommunityUseCase(communityRepo community.CommunityRepository, logger logger.Interface) *CreateCommunityUseCase {
	return &CreateCommunityUseCase{
		communityRepo: communityRepo,
		logger:        logger,
	}
}

func (uc *CreateCommunityUseCase) Execute(ctx context.Context, cmd CreateCommunityCommand) (*community.Community, error) {
	if cmd.AdminID == 0 {
		return nil, apperrors.NewValidationError("admin id is required")
	}

	comm, err := community.NewCommunity(cmd.Name, cmd.Description, cmd.CreditsCost, cmd.CreditsPeriod, cmd.AdminID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.communityRepo.Create(ctx, comm); err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	uc.logger.Infow("community created",
		"community_id", comm.ID(),
		"admin_id", cmd.AdminID,
		"credits_cost", cmd.CreditsCost,
	)

	return comm, nil
}
