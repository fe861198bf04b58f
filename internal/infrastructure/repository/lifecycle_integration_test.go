package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"skillswap/internal/application/community/usecases"
	"skillswap/internal/domain/community"
	"skillswap/internal/domain/credits"
	"skillswap/internal/infrastructure/persistence/models"
	"skillswap/internal/shared/db"
	"skillswap/internal/shared/logger"
)

// captureNotifier records sent events so tests can assert on the post-commit
// fan-out without a running broker.
type captureNotifier struct {
	community []community.Event
	user      []community.Event
}

func (n *captureNotifier) SendToCommunity(_ context.Context, _ uint, event community.Event) error {
	n.community = append(n.community, event)
	return nil
}

func (n *captureNotifier) SendToUser(_ context.Context, _ uint, event community.Event) error {
	n.user = append(n.user, event)
	return nil
}

// faultyLedger debits for real, then fails, forcing the surrounding unit of
// work to roll back after a successful balance mutation.
type faultyLedger struct {
	credits.Ledger
}

func (l *faultyLedger) Deduct(ctx context.Context, userID uint, amount int, reason string) error {
	if err := l.Ledger.Deduct(ctx, userID, amount, reason); err != nil {
		return err
	}
	return errors.New("ledger backend unavailable")
}

type lifecycleFixture struct {
	db             *gorm.DB
	communityRepo  community.CommunityRepository
	membershipRepo community.MembershipRepository
	ledger         credits.Ledger
	txManager      *db.TransactionManager
	notifier       *captureNotifier
	log            logger.Interface
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	gormDB := setupTestDB(t)
	log := logger.NewLogger()
	return &lifecycleFixture{
		db:             gormDB,
		communityRepo:  NewCommunityRepository(gormDB, log),
		membershipRepo: NewMembershipRepository(gormDB, log),
		ledger:         NewCreditLedger(gormDB, log),
		txManager:      db.NewTransactionManager(gormDB),
		notifier:       &captureNotifier{},
		log:            log,
	}
}

func (f *lifecycleFixture) join() *usecases.JoinCommunityUseCase {
	return usecases.NewJoinCommunityUseCase(
		f.communityRepo, f.membershipRepo, f.ledger, f.txManager, f.notifier, f.log)
}

func (f *lifecycleFixture) leave() *usecases.LeaveCommunityUseCase {
	return usecases.NewLeaveCommunityUseCase(
		f.communityRepo, f.membershipRepo, f.txManager, f.notifier, f.log)
}

func (f *lifecycleFixture) membersCount(t *testing.T, communityID uint) int {
	t.Helper()
	var model models.CommunityModel
	require.NoError(t, f.db.First(&model, communityID).Error)
	return model.MembersCount
}

func TestLifecycle_JoinThenLeave_CountStaysConsistent(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	createTestUser(t, f.db, 1, 50)
	createTestUser(t, f.db, 2, 50)
	communityID := createTestCommunity(t, f.db, 20, 99)

	_, err := f.join().Execute(ctx, usecases.JoinCommunityCommand{UserID: 1, CommunityID: communityID})
	require.NoError(t, err)
	_, err = f.join().Execute(ctx, usecases.JoinCommunityCommand{UserID: 2, CommunityID: communityID, AutoRenew: true})
	require.NoError(t, err)

	assert.Equal(t, 2, f.membersCount(t, communityID))

	err = f.leave().Execute(ctx, usecases.LeaveCommunityCommand{UserID: 1, CommunityID: communityID})
	require.NoError(t, err)

	// the denormalized counter tracks the actual active rows
	assert.Equal(t, 1, f.membersCount(t, communityID))
	active, err := f.membershipRepo.CountActiveByCommunity(ctx, communityID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)

	balance, err := f.ledger.BalanceOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, balance, "leaving does not refund")
}

func TestLifecycle_Join_RollsBackWhenUnitOfWorkFails(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	createTestUser(t, f.db, 1, 50)
	communityID := createTestCommunity(t, f.db, 20, 99)

	join := usecases.NewJoinCommunityUseCase(
		f.communityRepo, f.membershipRepo, &faultyLedger{Ledger: f.ledger},
		f.txManager, f.notifier, f.log)

	_, err := join.Execute(ctx, usecases.JoinCommunityCommand{UserID: 1, CommunityID: communityID})
	require.Error(t, err)

	// the debit committed inside the transaction must have been undone
	balance, err := f.ledger.BalanceOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, balance)

	found, err := f.membershipRepo.FindByUserAndCommunity(ctx, 1, communityID)
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.Equal(t, 0, f.membersCount(t, communityID))
	assert.Empty(t, f.notifier.community, "nothing announced for a rolled back join")
}

func TestLifecycle_ExpirySweep_Idempotent(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	createTestUser(t, f.db, 1, 50)
	communityID := createTestCommunity(t, f.db, 20, 99)

	_, err := f.join().Execute(ctx, usecases.JoinCommunityCommand{UserID: 1, CommunityID: communityID})
	require.NoError(t, err)

	// age the subscription past its end
	past := time.Now().Add(-time.Hour)
	require.NoError(t, f.db.Model(&models.MembershipModel{}).
		Where("user_id = ?", 1).
		UpdateColumn("subscription_ends_at", past).Error)

	sweep := usecases.NewExpireMembershipsUseCase(
		f.communityRepo, f.membershipRepo, f.txManager, f.notifier, f.log)

	processed, err := sweep.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, f.membersCount(t, communityID))

	processed, err = sweep.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, processed, "second sweep finds nothing")
	assert.Equal(t, 0, f.membersCount(t, communityID))
}

func TestLifecycle_RenewalSweep_ChargesOrExpires(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	createTestUser(t, f.db, 99, 0) // community admin
	createTestUser(t, f.db, 1, 45) // 25 left after joining, can afford renewal
	createTestUser(t, f.db, 2, 27) // 7 left after joining, cannot
	communityID := createTestCommunity(t, f.db, 20, 99)

	for _, userID := range []uint{1, 2} {
		_, err := f.join().Execute(ctx, usecases.JoinCommunityCommand{
			UserID: userID, CommunityID: communityID, AutoRenew: true})
		require.NoError(t, err)
	}

	past := time.Now().Add(-time.Hour)
	require.NoError(t, f.db.Model(&models.MembershipModel{}).
		Where("community_id = ?", communityID).
		UpdateColumn("subscription_ends_at", past).Error)

	sweep := usecases.NewRenewMembershipsUseCase(
		f.communityRepo, f.membershipRepo, f.ledger, f.txManager, f.notifier, f.log)

	processed, err := sweep.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	// user 1 paid 20 on join and 20 on renewal
	balance, err := f.ledger.BalanceOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, balance)

	renewed, err := f.membershipRepo.FindByUserAndCommunity(ctx, 1, communityID)
	require.NoError(t, err)
	assert.True(t, renewed.IsActive())
	assert.True(t, renewed.SubscriptionEndsAt().After(time.Now().Add(29*24*time.Hour)),
		"renewal extends from the sweep time, not the lapsed end date")

	// user 2 could not pay and was removed
	removed, err := f.membershipRepo.FindByUserAndCommunity(ctx, 2, communityID)
	require.NoError(t, err)
	assert.False(t, removed.IsActive())

	assert.Equal(t, 1, f.membersCount(t, communityID))

	// the admin earned user 1's renewal fee
	adminBalance, err := f.ledger.BalanceOf(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 20, adminBalance)
}
