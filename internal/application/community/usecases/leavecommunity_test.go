package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"skillswap/internal/domain/community"
	apperrors "skillswap/internal/shared/errors"
)

func TestLeaveCommunity_Success(t *testing.T) {
	communityRepo := new(mockCommunityRepo)
	membershipRepo := new(mockMembershipRepo)
	notifier := &recordingNotifier{}

	comm := testCommunity(t, 1, 20, 99)
	membership := testMembership(t, 7, 1, 10, true, false, time.Now().Add(10*24*time.Hour))

	communityRepo.On("FindByID", mock.Anything, uint(1)).Return(comm, nil)
	membershipRepo.On("FindByUserAndCommunity", mock.Anything, uint(10), uint(1)).Return(membership, nil)
	membershipRepo.On("Update", mock.Anything, membership).Return(nil)
	communityRepo.On("DecrementMemberCount", mock.Anything, uint(1)).Return(nil)

	uc := NewLeaveCommunityUseCase(communityRepo, membershipRepo, &stubTxManager{}, notifier, nopLogger{})

	err := uc.Execute(context.Background(), LeaveCommunityCommand{UserID: 10, CommunityID: 1})

	require.NoError(t, err)
	assert.False(t, membership.IsActive())
	require.NotNil(t, membership.LeftAt())

	communityRepo.AssertExpectations(t)
	membershipRepo.AssertExpectations(t)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, community.EventMemberLeft, notifier.sent[0].Event.Type)
	assert.Equal(t, uint(1), notifier.sent[0].TargetID)
}

func TestLeaveCommunity_NotAMember(t *testing.T) {
	tests := []struct {
		name       string
		membership *community.Membership
	}{
		{"never joined", nil},
		{"already inactive", nil}, // set below
	}
	tests[1].membership = testMembership(t, 7, 1, 10, false, false, time.Now().Add(-time.Hour))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			communityRepo := new(mockCommunityRepo)
			membershipRepo := new(mockMembershipRepo)

			communityRepo.On("FindByID", mock.Anything, uint(1)).Return(testCommunity(t, 1, 20, 99), nil)
			membershipRepo.On("FindByUserAndCommunity", mock.Anything, uint(10), uint(1)).Return(tt.membership, nil)

			uc := NewLeaveCommunityUseCase(communityRepo, membershipRepo, &stubTxManager{}, &recordingNotifier{}, nopLogger{})

			err := uc.Execute(context.Background(), LeaveCommunityCommand{UserID: 10, CommunityID: 1})

			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		})
	}
}

func TestLeaveCommunity_AdminCannotLeave(t *testing.T) {
	communityRepo := new(mockCommunityRepo)
	membershipRepo := new(mockMembershipRepo)
	notifier := &recordingNotifier{}

	comm := testCommunity(t, 1, 20, 10) // user 10 administers the community
	adminMembership := testMembership(t, 7, 1, 10, true, false, time.Now().Add(10*24*time.Hour))

	communityRepo.On("FindByID", mock.Anything, uint(1)).Return(comm, nil)
	membershipRepo.On("FindByUserAndCommunity", mock.Anything, uint(10), uint(1)).Return(adminMembership, nil)

	uc := NewLeaveCommunityUseCase(communityRepo, membershipRepo, &stubTxManager{}, notifier, nopLogger{})

	err := uc.Execute(context.Background(), LeaveCommunityCommand{UserID: 10, CommunityID: 1})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))

	assert.True(t, adminMembership.IsActive(), "no state may be mutated")
	membershipRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	communityRepo.AssertNotCalled(t, "DecrementMemberCount", mock.Anything, mock.Anything)
	assert.Empty(t, notifier.sent)
}

func TestLeaveCommunity_CommunityNotFound(t *testing.T) {
	communityRepo := new(mockCommunityRepo)
	membershipRepo := new(mockMembershipRepo)

	communityRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, nil)

	uc := NewLeaveCommunityUseCase(communityRepo, membershipRepo, &stubTxManager{}, &recordingNotifier{}, nopLogger{})

	err := uc.Execute(context.Background(), LeaveCommunityCommand{UserID: 10, CommunityID: 42})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
