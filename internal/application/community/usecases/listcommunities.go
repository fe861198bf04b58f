package usecases

import (
	"context"
	"fmt"

	"skillswap/internal/domain/community"
)

// ListCommunitiesUseCase returns the active community catalog.
type ListCommunitiesUseCase struct {
	communityRepo community.CommunityRepository
}

func NewListCommunitiesUseCase(communityRepo community.CommunityRepository) *ListCommunitiesUseCase {
	return &ListCommunitiesUseCase{communityRepo: communityRepo}
}

func (uc *ListCommunitiesUseCase) Execute(ctx context.Context) ([]*community.Community, error) {
	communities, err := uc.communityRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	return communities, nil
}
