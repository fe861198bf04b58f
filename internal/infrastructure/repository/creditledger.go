package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"skillswap/internal/domain/credits"
	"skillswap/internal/infrastructure/persistence/models"
	"skillswap/internal/shared/db"
	"skillswap/internal/shared/logger"
)

// CreditLedgerImpl is the gorm-backed credit ledger. Balance mutations are
// guarded conditional updates, so a balance can never commit negative, and
// every mutation appends a credit_transactions row. Both methods resolve the
// ambient transaction from ctx and therefore participate in the caller's
// unit of work.
type CreditLedgerImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCreditLedger(gormDB *gorm.DB, logger logger.Interface) credits.Ledger {
	return &CreditLedgerImpl{
		db:     gormDB,
		logger: logger,
	}
}

func (l *CreditLedgerImpl) Deduct(ctx context.Context, userID uint, amount int, reason string) error {
	if amount < 0 {
		return fmt.Errorf("deduct amount cannot be negative")
	}

	tx := db.GetTxFromContext(ctx, l.db)

	result := tx.Model(&models.UserModel{}).
		Where("id = ? AND credits >= ?", userID, amount).
		UpdateColumn("credits", gorm.Expr("credits - ?", amount))
	if result.Error != nil {
		l.logger.Errorw("failed to debit credits", "user_id", userID, "amount", amount, "error", result.Error)
		return fmt.Errorf("failed to debit credits: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.UserModel{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check user existence: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("user %d not found", userID)
		}
		return &credits.InsufficientCreditsError{UserID: userID, Amount: amount}
	}

	return l.record(tx, userID, amount, models.CreditDirectionDebit, reason)
}

func (l *CreditLedgerImpl) Credit(ctx context.Context, userID uint, amount int, reason string) error {
	if amount < 0 {
		return fmt.Errorf("credit amount cannot be negative")
	}

	tx := db.GetTxFromContext(ctx, l.db)

	result := tx.Model(&models.UserModel{}).
		Where("id = ?", userID).
		UpdateColumn("credits", gorm.Expr("credits + ?", amount))
	if result.Error != nil {
		l.logger.Errorw("failed to credit credits", "user_id", userID, "amount", amount, "error", result.Error)
		return fmt.Errorf("failed to credit credits: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d not found", userID)
	}

	return l.record(tx, userID, amount, models.CreditDirectionCredit, reason)
}

func (l *CreditLedgerImpl) BalanceOf(ctx context.Context, userID uint) (int, error) {
	tx := db.GetTxFromContext(ctx, l.db)

	var model models.UserModel
	if err := tx.Select("id", "credits").First(&model, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("user %d not found", userID)
		}
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return model.Credits, nil
}

func (l *CreditLedgerImpl) record(tx *gorm.DB, userID uint, amount int, direction, reason string) error {
	entry := &models.CreditTransactionModel{
		UserID:    userID,
		Amount:    amount,
		Direction: direction,
		Reason:    reason,
		Metadata:  datatypes.JSON([]byte(`{}`)),
	}
	if err := tx.Create(entry).Error; err != nil {
		l.logger.Errorw("failed to record credit transaction",
			"user_id", userID, "direction", direction, "error", err)
		return fmt.Errorf("failed to record credit transaction: %w", err)
	}
	return nil
}
