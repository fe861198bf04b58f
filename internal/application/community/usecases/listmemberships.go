package usecases

import (
	"context"
	"fmt"

	"skillswap/internal/domain/community"
	apperrors "skillswap/internal/shared/errors"
)

// ListMembershipsUseCase returns the caller's active memberships.
type ListMembershipsUseCase struct {
	membershipRepo community.MembershipRepository
}

func NewListMembershipsUseCase(membershipRepo community.MembershipRepository) *ListMembershipsUseCase {
	return &ListMembershipsUseCase{membershipRepo: membershipRepo}
}

func (uc *ListMembershipsUseCase) Execute(ctx context.Context, userID uint) ([]*community.Membership, error) {
	if userID == 0 {
		return nil, apperrors.NewValidationError("user id is required")
	}

	memberships, err := uc.membershipRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}
