package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"skillswap/internal/domain/community"
	"skillswap/internal/domain/credits"
)

func renewalCandidate(t *testing.T, m *community.Membership, userCredits, cost int, adminID uint, name string) community.RenewalCandidate {
	t.Helper()
	return community.RenewalCandidate{
		Membership:       m,
		UserCredits:      userCredits,
		CommunityCost:    cost,
		CommunityAdminID: adminID,
		CommunityName:    name,
	}
}

func TestRenewMemberships_SuccessfulRenewal(t *testing.T) {
	communityRepo := new(mockCommunityRepo)
	membershipRepo := new(mockMembershipRepo)
	ledger := new(mockLedger)
	notifier := &recordingNotifier{}

	m := testMembership(t, 7, 1, 10, true, true, time.Now().Add(-time.Hour))
	candidate := renewalCandidate(t, m, 25, 20, 99, "Go Study Circle")

	membershipRepo.On("FindExpiredAutoRenew", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]community.RenewalCandidate{candidate}, nil)
	membershipRepo.On("FindByUserAndCommunity", mock.Anything, uint(10), uint(1)).Return(m, nil)
	ledger.On("Deduct", mock.Anything, uint(10), 20, credits.ReasonCommunityRenew).Return(nil)
	ledger.On("Credit", mock.Anything, uint(99), 20, credits.ReasonEarned).Return(nil)
	membershipRepo.On("Update", mock.Anything, m).Return(nil)

	uc := NewRenewMembershipsUseCase(communityRepo, membershipRepo, ledger, &stubTxManager{}, notifier, nopLogger{})

	before := time.Now()
	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.True(t, m.IsActive(), "renewed membership stays active")
	require.NotNil(t, m.SubscriptionEndsAt())
	assert.WithinDuration(t, before.Add(community.SubscriptionPeriod), *m.SubscriptionEndsAt(), 2*time.Second,
		"renewal extends from now, not from the stale end date")

	ledger.AssertExpectations(t)
	communityRepo.AssertNotCalled(t, "DecrementMemberCount", mock.Anything, mock.Anything)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, community.EventSubscriptionRenewed, notifier.sent[0].Event.Type)
	assert.True(t, notifier.sent[0].ToUser)
	assert.Equal(t, 20, notifier.sent[0].Event.Data["credits_deducted"])
	assert.Equal(t, community.EventBalanceUpdated, notifier.sent[1].Event.Type)
}

func TestRenewMemberships_InsufficientCreditsExpires(t *testing.T) {
	communityRepo := new(mockCommunityRepo)
	membershipRepo := new(mockMembershipRepo)
	ledger := new(mockLedger)
	notifier := &recordingNotifier{}

	m := testMembership(t, 7, 1, 10, true, true, time.Now().Add(-time.Hour))
	candidate := renewalCandidate(t, m, 15, 20, 99, "Go Study Circle")

	membershipRepo.On("FindExpiredAutoRenew", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]community.RenewalCandidate{candidate}, nil)
	membershipRepo.On("FindByUserAndCommunity", mock.Anything, uint(10), uint(1)).Return(m, nil)
	membershipRepo.On("Update", mock.Anything, m).Return(nil)
	communityRepo.On("DecrementMemberCount", mock.Anything, uint(1)).Return(nil)

	uc := NewRenewMembershipsUseCase(communityRepo, membershipRepo, ledger, &stubTxManager{}, notifier, nopLogger{})

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.False(t, m.IsActive())
	require.NotNil(t, m.LeftAt())

	// the user's balance is untouched
	ledger.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, community.EventMemberLeft, notifier.sent[0].Event.Type)
	removed := notifier.sent[1]
	assert.Equal(t, community.EventMemberRemoved, removed.Event.Type)
	assert.True(t, removed.ToUser)
	assert.Equal(t, community.RemovalReasonAutoRenewFailed, removed.Event.Data["reason"])
	assert.Contains(t, removed.Event.Data["message"], "Go Study Circle")
}

func TestRenewMemberships_AdminRenewingOwnCommunityIsNotPaidTwice(t *testing.T) {
	membershipRepo := new(mockMembershipRepo)
	ledger := new(mockLedger)

	// user 10 administers the community they auto-renew in
	m := testMembership(t, 7, 1, 10, true, true, time.Now().Add(-time.Hour))
	candidate := renewalCandidate(t, m, 50, 20, 10, "Go Study Circle")

	membershipRepo.On("FindExpiredAutoRenew", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]community.RenewalCandidate{candidate}, nil)
	membershipRepo.On("FindByUserAndCommunity", mock.Anything, uint(10), uint(1)).Return(m, nil)
	ledger.On("Deduct", mock.Anything, uint(10), 20, credits.ReasonCommunityRenew).Return(nil)
	membershipRepo.On("Update", mock.Anything, m).Return(nil)

	uc := NewRenewMembershipsUseCase(new(mockCommunityRepo), membershipRepo, ledger, &stubTxManager{}, &recordingNotifier{}, nopLogger{})

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRenewMemberships_FreeCommunityRenewsWithoutLedger(t *testing.T) {
	membershipRepo := new(mockMembershipRepo)
	ledger := new(mockLedger)

	m := testMembership(t, 7, 1, 10, true, true, time.Now().Add(-time.Hour))
	candidate := renewalCandidate(t, m, 0, 0, 99, "Free Circle")

	membershipRepo.On("FindExpiredAutoRenew", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]community.RenewalCandidate{candidate}, nil)
	membershipRepo.On("FindByUserAndCommunity", mock.Anything, uint(10), uint(1)).Return(m, nil)
	membershipRepo.On("Update", mock.Anything, m).Return(nil)

	uc := NewRenewMembershipsUseCase(new(mockCommunityRepo), membershipRepo, ledger, &stubTxManager{}, &recordingNotifier{}, nopLogger{})

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, m.IsActive())
	ledger.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRenewMemberships_BalanceMovedSinceSelection(t *testing.T) {
	communityRepo := new(mockCommunityRepo)
	membershipRepo := new(mockMembershipRepo)
	ledger := new(mockLedger)

	m := testMembership(t, 7, 1, 10, true, true, time.Now().Add(-time.Hour))
	// the selection saw enough credits, but the balance shrank before the debit
	candidate := renewalCandidate(t, m, 25, 20, 99, "Go Study Circle")

	membershipRepo.On("FindExpiredAutoRenew", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]community.RenewalCandidate{candidate}, nil)
	membershipRepo.On("FindByUserAndCommunity", mock.Anything, uint(10), uint(1)).Return(m, nil)
	ledger.On("Deduct", mock.Anything, uint(10), 20, credits.ReasonCommunityRenew).
		Return(&credits.InsufficientCreditsError{UserID: 10, Amount: 20})
	membershipRepo.On("Update", mock.Anything, m).Return(nil)
	communityRepo.On("DecrementMemberCount", mock.Anything, uint(1)).Return(nil)

	uc := NewRenewMembershipsUseCase(communityRepo, membershipRepo, ledger, &stubTxManager{}, &recordingNotifier{}, nopLogger{})

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.False(t, m.IsActive(), "an unpayable renewal resolves to expiry")
}

func TestRenewMemberships_PerItemFailureDoesNotAbortBatch(t *testing.T) {
	communityRepo := new(mockCommunityRepo)
	membershipRepo := new(mockMembershipRepo)
	ledger := new(mockLedger)

	first := testMembership(t, 7, 1, 10, true, true, time.Now().Add(-time.Hour))
	second := testMembership(t, 8, 2, 11, true, true, time.Now().Add(-time.Hour))

	membershipRepo.On("FindExpiredAutoRenew", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]community.RenewalCandidate{
			renewalCandidate(t, first, 25, 20, 99, "One"),
			renewalCandidate(t, second, 25, 20, 99, "Two"),
		}, nil)

	membershipRepo.On("FindByUserAndCommunity", mock.Anything, uint(10), uint(1)).Return(first, nil)
	ledger.On("Deduct", mock.Anything, uint(10), 20, credits.ReasonCommunityRenew).
		Return(errors.New("ledger unavailable"))

	membershipRepo.On("FindByUserAndCommunity", mock.Anything, uint(11), uint(2)).Return(second, nil)
	ledger.On("Deduct", mock.Anything, uint(11), 20, credits.ReasonCommunityRenew).Return(nil)
	ledger.On("Credit", mock.Anything, uint(99), 20, credits.ReasonEarned).Return(nil)
	membershipRepo.On("Update", mock.Anything, second).Return(nil)

	uc := NewRenewMembershipsUseCase(communityRepo, membershipRepo, ledger, &stubTxManager{}, &recordingNotifier{}, nopLogger{})

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, first.IsActive(), "failed item is left for the next sweep")
	assert.True(t, second.IsActive())
}

func TestRenewMemberships_EmptySelection(t *testing.T) {
	membershipRepo := new(mockMembershipRepo)
	membershipRepo.On("FindExpiredAutoRenew", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]community.RenewalCandidate{}, nil)

	uc := NewRenewMembershipsUseCase(new(mockCommunityRepo), membershipRepo, new(mockLedger), &stubTxManager{}, &recordingNotifier{}, nopLogger{})

	count, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
