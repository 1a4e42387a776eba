package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeTransfer TransactionType = "transfer"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is a standalone ledger entry per customer, independent of
// billing and payments. IDs are system-assigned; the timestamp defaults
// to now when the caller leaves it zero.
type Transaction struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	Type       TransactionType   `gorm:"type:text;not null" json:"type"`
	Amount     int64             `gorm:"not null" json:"amount"`
	Status     TransactionStatus `gorm:"type:text;not null;default:pending" json:"status"`
	Reference  string            `gorm:"type:text;not null;uniqueIndex" json:"reference"`
	Timestamp  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"timestamp"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }

func ValidType(t TransactionType) bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdraw || t == TransactionTypeTransfer
}

func ValidStatus(s TransactionStatus) bool {
	return s == TransactionStatusCompleted || s == TransactionStatusPending || s == TransactionStatusFailed
}
