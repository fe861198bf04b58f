package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/domain/credits"
	"skillswap/internal/infrastructure/persistence/models"
	"skillswap/internal/shared/logger"
)

func TestCreditLedger_Deduct(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCreditLedger(db, logger.NewLogger())
	ctx := context.Background()

	createTestUser(t, db, 1, 50)

	err := ledger.Deduct(ctx, 1, 20, credits.ReasonCommunityJoin)

	require.NoError(t, err)
	balance, err := ledger.BalanceOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 30, balance)

	var entry models.CreditTransactionModel
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, uint(1), entry.UserID)
	assert.Equal(t, 20, entry.Amount)
	assert.Equal(t, models.CreditDirectionDebit, entry.Direction)
	assert.Equal(t, credits.ReasonCommunityJoin, entry.Reason)
}

func TestCreditLedger_Deduct_Insufficient(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCreditLedger(db, logger.NewLogger())
	ctx := context.Background()

	createTestUser(t, db, 1, 10)

	err := ledger.Deduct(ctx, 1, 20, credits.ReasonCommunityRenew)

	var insufficient *credits.InsufficientCreditsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint(1), insufficient.UserID)
	assert.Equal(t, 20, insufficient.Amount)

	// balance untouched and no ledger entry written
	balance, err := ledger.BalanceOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, balance)

	var count int64
	require.NoError(t, db.Model(&models.CreditTransactionModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreditLedger_Deduct_ExactBalance(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCreditLedger(db, logger.NewLogger())
	ctx := context.Background()

	createTestUser(t, db, 1, 20)

	require.NoError(t, ledger.Deduct(ctx, 1, 20, credits.ReasonCommunityJoin))

	balance, err := ledger.BalanceOf(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestCreditLedger_Deduct_UserMissing(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCreditLedger(db, logger.NewLogger())

	err := ledger.Deduct(context.Background(), 42, 5, credits.ReasonCommunityJoin)

	require.Error(t, err)
	var insufficient *credits.InsufficientCreditsError
	assert.False(t, errors.As(err, &insufficient), "missing user is not an insufficiency")
}

func TestCreditLedger_Credit(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewCreditLedger(db, logger.NewLogger())
	ctx := context.Background()

	createTestUser(t, db, 7, 0)

	require.NoError(t, ledger.Credit(ctx, 7, 15, credits.ReasonEarned))

	balance, err := ledger.BalanceOf(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 15, balance)

	var entry models.CreditTransactionModel
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, models.CreditDirectionCredit, entry.Direction)
}
