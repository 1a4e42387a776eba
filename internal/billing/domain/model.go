package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type BillingStatus string

const (
	BillingStatusPaid    BillingStatus = "paid"
	BillingStatusUnpaid  BillingStatus = "unpaid"
	BillingStatusPending BillingStatus = "pending"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Billing is one billing cycle for a subscription. The final amount is
// never stored on the struct: the schema derives it as a generated column
// and every read computes COALESCE(total,0)-COALESCE(discount,0), so the
// value cannot drift from its inputs.
type Billing struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	SubscriptionID snowflake.ID  `gorm:"not null;index" json:"subscription_id"`
	PeriodStart    time.Time     `gorm:"not null" json:"period_start"`
	PeriodEnd      time.Time     `gorm:"not null" json:"period_end"`
	IssueDate      time.Time     `gorm:"not null" json:"issue_date"`
	DueDate        time.Time     `gorm:"not null" json:"due_date"`
	TotalAmount    int64         `gorm:"not null" json:"total_amount"`
	DiscountAmount int64         `gorm:"not null;default:0" json:"discount_amount"`
	Status         BillingStatus `gorm:"type:text;not null;default:pending" json:"status"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Billing) TableName() string { return "billing_records" }

// FinalAmount derives the billed amount from its components.
func (b *Billing) FinalAmount() int64 {
	return b.TotalAmount - b.DiscountAmount
}

// Payment is money applied against one billing record. Reference is a
// ULID issued at creation.
type Payment struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	BillingID   snowflake.ID  `gorm:"not null;index" json:"billing_id"`
	PaymentDate time.Time     `gorm:"not null" json:"payment_date"`
	AmountPaid  int64         `gorm:"not null" json:"amount_paid"`
	Status      PaymentStatus `gorm:"type:text;not null;default:pending" json:"status"`
	Reference   string        `gorm:"type:text;not null;uniqueIndex" json:"reference"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

func ValidBillingStatus(s BillingStatus) bool {
	return s == BillingStatusPaid || s == BillingStatusUnpaid || s == BillingStatusPending
}

func ValidPaymentStatus(s PaymentStatus) bool {
	return s == PaymentStatusCompleted || s == PaymentStatusPending || s == PaymentStatusFailed
}
