package domain

import (
	"context"
	"errors"
	"time"
)

// Summary note states for the customer billing summary.
const (
	NoteFullyPaid      = "Fully Paid"
	NotePendingPayment = "Pending Payment"
	NoteCheckStatus    = "Check Status"
)

type Service interface {
	CreateBilling(ctx context.Context, req CreateBillingRequest) (*BillingResponse, error)
	ListBillings(ctx context.Context, req ListBillingsRequest) ([]BillingResponse, error)
	GetBilling(ctx context.Context, id string) (*BillingResponse, error)
	UpdateBillingStatus(ctx context.Context, id, status string) (*BillingResponse, error)
	DeleteBilling(ctx context.Context, id string) error

	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error)
	CustomerBillingSummary(ctx context.Context, customerID string) ([]SummaryRow, error)
}

type CreateBillingRequest struct {
	SubscriptionID string    `json:"subscription_id"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	IssueDate      time.Time `json:"issue_date"`
	DueDate        time.Time `json:"due_date"`
	TotalAmount    int64     `json:"total_amount"`
	DiscountAmount int64     `json:"discount_amount"`
}

type ListBillingsRequest struct {
	SubscriptionID string `form:"subscription_id"`
	Status         string `form:"status"`
}

type RecordPaymentRequest struct {
	BillingID  string `json:"billing_id"`
	AmountPaid int64  `json:"amount_paid"`
	Status     string `json:"status"`
}

type BillingResponse struct {
	ID             string        `json:"id"`
	SubscriptionID string        `json:"subscription_id"`
	PeriodStart    time.Time     `json:"period_start"`
	PeriodEnd      time.Time     `json:"period_end"`
	IssueDate      time.Time     `json:"issue_date"`
	DueDate        time.Time     `json:"due_date"`
	TotalAmount    int64         `json:"total_amount"`
	DiscountAmount int64         `json:"discount_amount"`
	FinalAmount    int64         `json:"final_amount"`
	Status         BillingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

type PaymentResponse struct {
	ID          string        `json:"id"`
	BillingID   string        `json:"billing_id"`
	PaymentDate time.Time     `json:"payment_date"`
	AmountPaid  int64         `json:"amount_paid"`
	Status      PaymentStatus `json:"status"`
	Reference   string        `json:"reference"`
}

// SummaryRow is one line of the customer billing summary: a billing row
// left-joined to its (possibly absent) payment, annotated with a
// three-state note.
type SummaryRow struct {
	BillingID      int64      `json:"billing_id,string"`
	SubscriptionID int64      `json:"subscription_id,string"`
	PlanName       string     `json:"plan_name"`
	PeriodStart    time.Time  `json:"period_start"`
	PeriodEnd      time.Time  `json:"period_end"`
	DueDate        time.Time  `json:"due_date"`
	FinalAmount    int64      `json:"final_amount"`
	BillingStatus  string     `json:"billing_status"`
	PaymentStatus  *string    `json:"payment_status,omitempty"`
	PaymentDate    *time.Time `json:"payment_date,omitempty"`
	AmountPaid     *int64     `json:"amount_paid,omitempty"`
	PaymentNote    string     `json:"payment_note"`
}

var (
	ErrInvalidID           = errors.New("invalid_billing_id")
	ErrInvalidSubscription = errors.New("invalid_billing_subscription")
	ErrInvalidPeriod       = errors.New("invalid_billing_period")
	ErrInvalidAmount       = errors.New("invalid_billing_amount")
	ErrInvalidStatus       = errors.New("invalid_billing_status")
	ErrInvalidCustomer     = errors.New("invalid_billing_customer")
	ErrInvalidPayment      = errors.New("invalid_payment")
	ErrNotFound            = errors.New("billing_not_found")
)
