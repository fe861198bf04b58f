package models

import (
	"time"

	"gorm.io/datatypes"

	"skillswap/internal/shared/constants"
)

// Credit movement directions.
const (
	CreditDirectionDebit  = "debit"
	CreditDirectionCredit = "credit"
)

// CreditTransactionModel is the append-only audit trail behind every balance
// mutation the ledger performs. The wallet history surface reads it; this
// core only writes.
type CreditTransactionModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;index:idx_credit_tx_user"`
	Amount    int    `gorm:"not null"`
	Direction string `gorm:"not null;size:10"`
	Reason    string `gorm:"not null;size:50"`
	Metadata  datatypes.JSON
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (CreditTransactionModel) TableName() string {
	return constants.TableCreditTransactions
}
