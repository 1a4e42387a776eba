package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/telvoralabs/telvora/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateBilling(ctx context.Context, db *gorm.DB, billing *domain.Billing) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO billing_records (id, subscription_id, period_start, period_end, issue_date, due_date, total_amount, discount_amount, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		billing.ID,
		billing.SubscriptionID,
		billing.PeriodStart,
		billing.PeriodEnd,
		billing.IssueDate,
		billing.DueDate,
		billing.TotalAmount,
		billing.DiscountAmount,
		billing.Status,
		billing.CreatedAt,
	).Error
}

func (r *repo) FindBillingByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Billing, error) {
	var billing domain.Billing
	err := db.WithContext(ctx).Raw(
		`SELECT id, subscription_id, period_start, period_end, issue_date, due_date, total_amount, discount_amount, status, created_at
		 FROM billing_records WHERE id = ?`,
		id,
	).Scan(&billing).Error
	if err != nil {
		return nil, err
	}
	if billing.ID == 0 {
		return nil, nil
	}
	return &billing, nil
}

func (r *repo) ListBillings(ctx context.Context, db *gorm.DB, filter domain.ListBillingsRequest) ([]domain.Billing, error) {
	var billings []domain.Billing
	stmt := db.WithContext(ctx).Model(&domain.Billing{})

	if filter.SubscriptionID != "" {
		stmt = stmt.Where("subscription_id = ?", filter.SubscriptionID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	if err := stmt.Order("period_start DESC").Find(&billings).Error; err != nil {
		return nil, err
	}
	return billings, nil
}

func (r *repo) UpdateBillingStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.BillingStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE billing_records SET status = ? WHERE id = ?`,
		status,
		id,
	).Error
}

func (r *repo) CreatePayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, billing_id, payment_date, amount_paid, status, reference)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.BillingID,
		payment.PaymentDate,
		payment.AmountPaid,
		payment.Status,
		payment.Reference,
	).Error
}

// CustomerBillingSummary joins every billing row for the customer's
// subscriptions with its payment, if any. The note is a three-state CASE
// and the fallback covers mismatches as well as missing payments.
func (r *repo) CustomerBillingSummary(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]domain.SummaryRow, error) {
	var rows []domain.SummaryRow
	err := db.WithContext(ctx).Raw(`
		SELECT
			b.id AS billing_id,
			s.id AS subscription_id,
			sp.name AS plan_name,
			b.period_start,
			b.period_end,
			b.due_date,
			COALESCE(b.total_amount, 0) - COALESCE(b.discount_amount, 0) AS final_amount,
			b.status AS billing_status,
			p.status AS payment_status,
			p.payment_date,
			p.amount_paid,
			CASE
				WHEN b.status = 'paid' AND p.status = 'completed' THEN 'Fully Paid'
				WHEN b.status = 'pending' AND p.status = 'pending' THEN 'Pending Payment'
				ELSE 'Check Status'
			END AS payment_note
		FROM billing_records b
		JOIN subscriptions s ON s.id = b.subscription_id
		JOIN service_plans sp ON sp.id = s.plan_id
		LEFT JOIN payments p ON p.billing_id = b.id
		WHERE s.customer_id = ?
		ORDER BY b.period_start DESC`,
		customerID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
